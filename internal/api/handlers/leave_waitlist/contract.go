package leave_waitlist

import "context"

type WaitlistService interface {
	Leave(ctx context.Context, id, clientID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
