package approve_review

import "context"

type ReviewService interface {
	Approve(ctx context.Context, id, actorID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
