package professionals

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// CreateRequest запрос на добавление мастера
type CreateRequest struct {
	ActorID        int64   `json:"-"`
	Name           string  `json:"name"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	CommissionRate float64 `json:"commissionRate"`
}

// UpdateRequest частичное обновление мастера
type UpdateRequest struct {
	ActorID        int64    `json:"-"`
	Name           *string  `json:"name,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Email          *string  `json:"email,omitempty"`
	CommissionRate *float64 `json:"commissionRate,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}

// Response мастер в ответе API
// Контакты и ставка видны только администратору
type Response struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Phone          *string   `json:"phone,omitempty"`
	Email          *string   `json:"email,omitempty"`
	CommissionRate *float64  `json:"commissionRate,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListResponse список мастеров
type ListResponse struct {
	Professionals []Response `json:"professionals"`
}

func fromDomain(p *domain.Professional, full bool) Response {
	resp := Response{ID: p.ID, Name: p.Name, Active: p.Active, CreatedAt: p.CreatedAt}
	if full {
		rate := p.CommissionRate
		resp.Phone = p.Phone
		resp.Email = p.Email
		resp.CommissionRate = &rate
	}
	return resp
}

func (r *UpdateRequest) applyTo(p *domain.Professional) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Phone != nil {
		p.Phone = r.Phone
	}
	if r.Email != nil {
		p.Email = r.Email
	}
	if r.CommissionRate != nil {
		p.CommissionRate = *r.CommissionRate
	}
	if r.Active != nil {
		p.Active = *r.Active
	}
}
