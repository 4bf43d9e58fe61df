package promote_waitlist

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("promote_waitlist: internal error")
)
