package list_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/service/appointments/models"
)

// ToServiceRequest собирает фильтр из query параметров
func ToServiceRequest(r *http.Request) (*models.ListRequest, error) {
	professionalID, err := handlers.QueryID(r, "professionalId")
	if err != nil {
		return nil, err
	}
	clientID, err := handlers.QueryID(r, "clientId")
	if err != nil {
		return nil, err
	}
	serviceID, err := handlers.QueryID(r, "serviceId")
	if err != nil {
		return nil, err
	}
	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		return nil, err
	}

	return &models.ListRequest{
		StartDate:       handlers.QueryString(r, "from"),
		EndDate:         handlers.QueryString(r, "to"),
		Status:          handlers.QueryString(r, "status"),
		ProfessionalID:  professionalID,
		ClientID:        clientID,
		ServiceID:       serviceID,
		IncludeInactive: includeInactive,
	}, nil
}
