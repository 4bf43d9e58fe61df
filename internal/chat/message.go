package chat

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// incoming сообщение от участника чата
// Для администратора To обязателен: ID клиента, которому адресован ответ
type incoming struct {
	To   int64  `json:"to"`
	Text string `json:"text"`
}

// Message сообщение, доставляемое участникам
type Message struct {
	From     int64       `json:"from"`
	FromName string      `json:"from_name"`
	FromRole domain.Role `json:"from_role"`
	// ClientID клиент, к чьему диалогу относится сообщение
	ClientID int64     `json:"client_id"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sent_at"`
	Error    string    `json:"error,omitempty"`
}
