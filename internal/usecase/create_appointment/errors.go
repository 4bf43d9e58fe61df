package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или выключена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrClientNotFound возвращается, когда клиент не найден или заблокирован
	ErrClientNotFound = errors.New("create_appointment: client not found")

	// ErrProfessionalNotFound возвращается, когда мастер не найден или не работает
	ErrProfessionalNotFound = errors.New("create_appointment: professional not found")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrSalonClosed возвращается, когда салон закрыт в указанную дату
	ErrSalonClosed = errors.New("create_appointment: salon is closed on this date")

	// ErrTooLateToBook возвращается, когда запись нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrInvalidTimeSlot возвращается, когда время не попадает в сетку слотов или в часы работы
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrSlotBlocked возвращается, когда время перекрыто блокировкой
	ErrSlotBlocked = errors.New("create_appointment: slot is blocked")

	// ErrSlotNotAvailable возвращается, когда все места в слоте заняты
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidCoupon возвращается, когда купон не найден или неприменим
	ErrInvalidCoupon = errors.New("create_appointment: coupon cannot be applied")

	// ErrInvalidWaitlistEntry возвращается, когда заявка листа ожидания не принадлежит клиенту или не ждет записи
	ErrInvalidWaitlistEntry = errors.New("create_appointment: invalid waitlist entry")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
