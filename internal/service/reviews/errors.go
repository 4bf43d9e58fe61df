package reviews

import "errors"

var (
	// ErrReviewNotFound возвращается, когда отзыв не найден
	ErrReviewNotFound = errors.New("review not found")

	// ErrAppointmentNotFound возвращается, когда запись не найдена или принадлежит другому клиенту
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrNotCompleted возвращается при отзыве на незавершенную запись
	ErrNotCompleted = errors.New("appointment is not completed")

	// ErrAlreadyReviewed возвращается при повторном отзыве
	ErrAlreadyReviewed = errors.New("appointment already reviewed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
