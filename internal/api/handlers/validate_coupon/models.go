package validate_coupon

// ValidateRequest проверка купона для суммы заказа
type ValidateRequest struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}
