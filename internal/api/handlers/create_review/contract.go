package create_review

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/reviews"
)

type ReviewService interface {
	Create(ctx context.Context, req *reviews.CreateRequest) (*reviews.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
