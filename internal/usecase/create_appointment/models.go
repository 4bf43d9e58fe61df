package create_appointment

import (
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// Источники записи (метка метрики appointments_created_total)
const (
	SourceClient = "client"
	SourceAdmin  = "admin"
)

// Request модель запроса на создание записи
type Request struct {
	ClientID       int64            // клиент, на которого создается запись
	ByAdmin        bool             // запись создает администратор от имени клиента
	ServiceID      int64            // ID услуги
	ProfessionalID *int64           // мастер (опционально)
	Date           types.Date       // дата записи
	StartTime      types.TimeString // время начала (например, "10:00")
	CouponCode     *string          // промокод (опционально)
	WaitlistID     *int64           // заявка листа ожидания, по которой клиент записывается
	Notes          *string          // заметки клиента
}

// Source метка источника записи
func (r *Request) Source() string {
	if r.ByAdmin {
		return SourceAdmin
	}
	return SourceClient
}
