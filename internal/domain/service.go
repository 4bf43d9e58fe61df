package domain

import "time"

// Service услуга из каталога салона
type Service struct {
	ID              int64
	Name            string
	Description     *string
	Category        *string
	DurationMinutes int
	Price           float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ServiceFilter фильтр каталога
type ServiceFilter struct {
	Category        *string
	IncludeInactive bool
}

// Professional мастер салона
type Professional struct {
	ID             int64
	Name           string
	Phone          *string
	Email          *string
	CommissionRate float64 // проценты, 0..100
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
