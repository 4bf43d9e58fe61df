package chat_ws

import (
	"context"

	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/service/auth"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*auth.UserResponse, error)
}

type ChatHub interface {
	Serve(conn *websocket.Conn, userID int64, role domain.Role, name string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
