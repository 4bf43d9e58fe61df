package domain

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// CommissionStatus статус выплаты комиссии
type CommissionStatus string

const (
	CommissionPending CommissionStatus = "pending"
	CommissionPaid    CommissionStatus = "paid"
)

// Commission процент от стоимости услуги, причитающийся мастеру
type Commission struct {
	ID             int64
	AppointmentID  int64
	ProfessionalID int64
	Amount         float64
	Rate           float64
	Status         CommissionStatus
	PaidAt         *time.Time
	CreatedAt      time.Time
}

// CalculateCommission round2(finalPrice × rate / 100)
func CalculateCommission(finalPrice, rate float64) float64 {
	return Round2(finalPrice * rate / 100)
}

// CommissionFilter фильтр списка комиссий
type CommissionFilter struct {
	ProfessionalID *int64
	Status         *CommissionStatus
	From           *types.Date
	To             *types.Date
}

// CommissionTotals суммы по фильтру
type CommissionTotals struct {
	Pending float64
	Paid    float64
}
