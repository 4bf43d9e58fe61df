package waitlist

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// JoinRequest запрос на постановку в лист ожидания
type JoinRequest struct {
	ClientID      int64   `json:"-"`
	ServiceID     int64   `json:"serviceId"`
	Date          string  `json:"date"`                    // "2026-11-02"
	PreferredTime *string `json:"preferredTime,omitempty"` // "10:00"
}

// ListRequest фильтр списка для администратора
type ListRequest struct {
	Date      *string `json:"date,omitempty"`
	Status    *string `json:"status,omitempty"`
	ServiceID *int64  `json:"serviceId,omitempty"`
}

// EntryResponse заявка в ответе API
type EntryResponse struct {
	ID            int64      `json:"id"`
	ClientID      int64      `json:"clientId"`
	ServiceID     int64      `json:"serviceId"`
	Date          string     `json:"date"`
	PreferredTime *string    `json:"preferredTime,omitempty"`
	Status        string     `json:"status"`
	OfferedTime   *string    `json:"offeredTime,omitempty"`
	NotifiedAt    *time.Time `json:"notifiedAt,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ListResponse список заявок
type ListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

func fromDomain(e *domain.WaitlistEntry) EntryResponse {
	resp := EntryResponse{
		ID:         e.ID,
		ClientID:   e.ClientID,
		ServiceID:  e.ServiceID,
		Date:       e.Date.String(),
		Status:     string(e.Status),
		NotifiedAt: e.NotifiedAt,
		ExpiresAt:  e.ExpiresAt,
		CreatedAt:  e.CreatedAt,
	}
	if e.PreferredTime != nil {
		s := e.PreferredTime.String()
		resp.PreferredTime = &s
	}
	if e.OfferedTime != nil {
		s := e.OfferedTime.String()
		resp.OfferedTime = &s
	}
	return resp
}

func fromDomainList(entries []*domain.WaitlistEntry) *ListResponse {
	resp := &ListResponse{Entries: make([]EntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, fromDomain(e))
	}
	return resp
}
