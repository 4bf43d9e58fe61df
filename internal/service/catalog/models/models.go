package models

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	ActorID         int64   `json:"-"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Category        *string `json:"category,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// UpdateServiceRequest частичное обновление услуги
type UpdateServiceRequest struct {
	ActorID         int64    `json:"-"`
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Category        *string  `json:"category,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	Active          *bool    `json:"active,omitempty"`
}

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Category        *string   `json:"category,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomain конвертирует domain модель в DTO
func FromDomain(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Category:        s.Category,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainList конвертирует список услуг
func FromDomainList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, *FromDomain(s))
	}
	return resp
}

// ToDomain конвертирует запрос создания в domain модель
func (r *CreateServiceRequest) ToDomain() *domain.Service {
	return &domain.Service{
		Name:            r.Name,
		Description:     r.Description,
		Category:        r.Category,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Active:          true,
	}
}

// ApplyTo применяет непустые поля запроса к услуге
func (r *UpdateServiceRequest) ApplyTo(s *domain.Service) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Description != nil {
		s.Description = r.Description
	}
	if r.Category != nil {
		s.Category = r.Category
	}
	if r.DurationMinutes != nil {
		s.DurationMinutes = *r.DurationMinutes
	}
	if r.Price != nil {
		s.Price = *r.Price
	}
	if r.Active != nil {
		s.Active = *r.Active
	}
}
