package list_reviews

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/reviews"
)

type ReviewService interface {
	ListPublic(ctx context.Context, serviceID *int64) (*reviews.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
