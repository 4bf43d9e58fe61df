package reviews

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// CreateRequest отзыв клиента
type CreateRequest struct {
	ClientID      int64   `json:"-"`
	AppointmentID int64   `json:"appointmentId"`
	Rating        int     `json:"rating"`
	Comment       *string `json:"comment,omitempty"`
}

// Response отзыв в ответе API
type Response struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointmentId"`
	ServiceID     int64     `json:"serviceId"`
	ClientName    string    `json:"clientName,omitempty"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment,omitempty"`
	Approved      bool      `json:"approved"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListResponse список отзывов
// Count и AverageRating заполняются в публичном списке
type ListResponse struct {
	Reviews       []Response `json:"reviews"`
	Count         int        `json:"count"`
	AverageRating float64    `json:"averageRating"`
}

func fromDomain(r *domain.Review) Response {
	return Response{
		ID:            r.ID,
		AppointmentID: r.AppointmentID,
		ServiceID:     r.ServiceID,
		ClientName:    r.ClientName,
		Rating:        r.Rating,
		Comment:       r.Comment,
		Approved:      r.Approved,
		CreatedAt:     r.CreatedAt,
	}
}

func fromDomainList(list []*domain.Review) *ListResponse {
	resp := &ListResponse{Reviews: make([]Response, 0, len(list))}
	for _, r := range list {
		resp.Reviews = append(resp.Reviews, fromDomain(r))
	}
	return resp
}
