package cancel_appointment

// Request модель запроса на отмену записи
type Request struct {
	AppointmentID int64
	ActorID       int64   // кто отменяет
	ByAdmin       bool    // администратор может отменить любую запись в любое время
	Reason        *string // причина отмены (опционально)
}
