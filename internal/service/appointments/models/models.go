package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidDate возвращается при некорректной дате фильтра
	ErrInvalidDate = errors.New("invalid date")
)

// Request модели

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	ActorID int64   `json:"-"`
	ByAdmin bool    `json:"-"`
	Reason  *string `json:"reason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса записи администратором
type UpdateStatusRequest struct {
	ActorID int64   `json:"-"`
	Status  string  `json:"status"`
	Reason  *string `json:"reason,omitempty"`
}

// ListRequest фильтр списка записей для администратора
type ListRequest struct {
	StartDate       *string `json:"startDate,omitempty"` // "2026-11-02"
	EndDate         *string `json:"endDate,omitempty"`
	Status          *string `json:"status,omitempty"`
	ProfessionalID  *int64  `json:"professionalId,omitempty"`
	ClientID        *int64  `json:"clientId,omitempty"`
	ServiceID       *int64  `json:"serviceId,omitempty"`
	IncludeInactive bool    `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		ProfessionalID:  r.ProfessionalID,
		ClientID:        r.ClientID,
		ServiceID:       r.ServiceID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil {
		d, err := types.ParseDate(*r.StartDate)
		if err != nil {
			return filter, ErrInvalidDate
		}
		filter.StartDate = &d
	}
	if r.EndDate != nil {
		d, err := types.ParseDate(*r.EndDate)
		if err != nil {
			return filter, ErrInvalidDate
		}
		filter.EndDate = &d
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, ErrInvalidDate
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	ClientID        int64  `json:"clientId"`
	ServiceID       int64  `json:"serviceId"`
	ProfessionalID  *int64 `json:"professionalId,omitempty"`
	Date            string `json:"date"`      // "2026-11-02"
	StartTime       string `json:"startTime"` // "10:00"
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	FinalPrice  float64 `json:"finalPrice"`

	CouponID    *int64  `json:"couponId,omitempty"`
	RecurringID *int64  `json:"recurringId,omitempty"`
	WaitlistID  *int64  `json:"waitlistId,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	CompletedAt        *string `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		ClientID:           a.ClientID,
		ServiceID:          a.ServiceID,
		ProfessionalID:     a.ProfessionalID,
		Date:               a.Date.String(),
		StartTime:          a.StartTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		ServiceName:        a.ServiceName,
		Price:              a.Price,
		Discount:           a.Discount,
		FinalPrice:         a.FinalPrice,
		CouponID:           a.CouponID,
		RecurringID:        a.RecurringID,
		WaitlistID:         a.WaitlistID,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CancelledAt:        formatTime(a.CancelledAt),
		CompletedAt:        formatTime(a.CompletedAt),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if end, err := a.EndTime(); err == nil {
		resp.EndTime = end.String()
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		if r := FromDomainAppointment(a); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}
	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
