package get_available_slots

import (
	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID      int64
	Date           types.Date
	ProfessionalID *int64 // nil - любой мастер
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date           types.Date
	ServiceID      int64
	ProfessionalID *int64
	Slots          []domain.AvailableSlot
}
