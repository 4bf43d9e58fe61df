package google

import "errors"

var (
	// ErrExchange возвращается, когда код авторизации не удалось обменять на токен
	ErrExchange = errors.New("google client: code exchange failed")

	// ErrUserInfo возвращается при ошибке получения профиля
	ErrUserInfo = errors.New("google client: failed to fetch user info")

	// ErrEmailNotVerified возвращается, когда у аккаунта Google не подтвержден email
	ErrEmailNotVerified = errors.New("google client: email is not verified")
)
