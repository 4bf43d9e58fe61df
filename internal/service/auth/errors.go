package auth

import "errors"

var (
	// ErrInvalidCredentials возвращается при неверном email или пароле
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTooManyAttempts возвращается, когда вход временно заблокирован
	ErrTooManyAttempts = errors.New("too many login attempts")

	// ErrUserInactive возвращается для отключенных учетных записей
	ErrUserInactive = errors.New("user is inactive")

	// ErrEmailTaken возвращается, когда email уже зарегистрирован
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrGoogleDisabled возвращается, когда вход через Google не настроен
	ErrGoogleDisabled = errors.New("google sign-in is disabled")

	// ErrGoogleFailed возвращается, когда Google не подтвердил пользователя
	ErrGoogleFailed = errors.New("google sign-in failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
