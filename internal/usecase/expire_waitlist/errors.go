package expire_waitlist

import "errors"

// ErrInternal возвращается при внутренних ошибках usecase
var ErrInternal = errors.New("expire_waitlist: internal error")
