package domain

import "time"

// Review отзыв клиента о завершенной записи
type Review struct {
	ID            int64
	AppointmentID int64
	ClientID      int64
	ServiceID     int64
	Rating        int
	Comment       *string
	Approved      bool
	ClientName    string // заполняется при чтении
	CreatedAt     time.Time
}

// ReviewSummary средняя оценка по одобренным отзывам
type ReviewSummary struct {
	Count         int
	AverageRating float64
}

// GalleryImage работа салона в галерее
type GalleryImage struct {
	ID          int64
	FileName    string
	ContentType string
	SizeBytes   int64
	Caption     *string
	ServiceID   *int64
	UploadedBy  int64
	CreatedAt   time.Time
}
