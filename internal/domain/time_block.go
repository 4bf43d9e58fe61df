package domain

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// TimeBlock интервал, в который запись запрещена (отпуск, обучение, ремонт)
type TimeBlock struct {
	ID             int64
	Date           types.Date
	StartTime      types.TimeString
	EndTime        types.TimeString
	ProfessionalID *int64 // NULL = блокируется весь салон
	Reason         *string
	CreatedBy      int64
	CreatedAt      time.Time
}

// AppliesTo применяется ли блокировка к записи к мастеру professionalID (nil - без мастера)
func (b *TimeBlock) AppliesTo(professionalID *int64) bool {
	if b.ProfessionalID == nil {
		return true
	}
	return professionalID != nil && *b.ProfessionalID == *professionalID
}

// IsValidRange начало строго раньше конца
func (b *TimeBlock) IsValidRange() bool {
	s, e := b.StartTime.Minutes(), b.EndTime.Minutes()
	return s >= 0 && e >= 0 && s < e
}
