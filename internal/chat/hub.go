// Package chat пересылает сообщения между клиентами и администраторами салона по WebSocket
// История не хранится: сообщение получают только подключенные участники
package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/sanitize"
)

const (
	// MaxTextLength максимальная длина сообщения в символах
	MaxTextLength = 2000

	errRecipientRequired = "recipient required"
)

type inbound struct {
	from *Client
	in   incoming
}

// Hub владеет списком подключений; всё состояние меняется только в горутине Run
type Hub struct {
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	done       chan struct{}

	clients map[*Client]struct{}
	logger  Logger
	now     func() time.Time
}

// NewHub создает хаб
func NewHub(logger Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		logger:     logger,
		now:        time.Now,
	}
}

// Run обрабатывает подключения до отмены ctx; при выходе закрывает все подключения
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.logger.Info("Chat hub stopped")
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Info("Chat: connected user_id=%d, role=%s, connections=%d", c.userID, c.role, len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Info("Chat: disconnected user_id=%d, role=%s", c.userID, c.role)
			}
		case msg := <-h.inbound:
			h.route(msg)
		}
	}
}

// Serve регистрирует подключение и обслуживает его до разрыва (блокирует вызывающего)
func (h *Hub) Serve(conn *websocket.Conn, userID int64, role domain.Role, name string) {
	c := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
		role:   role,
		name:   name,
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	c.readPump()
}

func (h *Hub) route(msg inbound) {
	from := msg.from
	text := sanitize.Text(msg.in.Text)
	if text == "" {
		return
	}
	if r := []rune(text); len(r) > MaxTextLength {
		text = string(r[:MaxTextLength])
	}

	out := Message{
		From:     from.userID,
		FromName: from.name,
		FromRole: from.role,
		Text:     text,
		SentAt:   h.now().UTC(),
	}

	if from.role == domain.RoleAdmin {
		if msg.in.To == 0 {
			h.sendTo(from, Message{Error: errRecipientRequired, SentAt: out.SentAt})
			return
		}
		out.ClientID = msg.in.To
	} else {
		out.ClientID = from.userID
	}

	// Диалог клиента видят все его подключения и все администраторы
	for c := range h.clients {
		if c.role == domain.RoleAdmin || c.userID == out.ClientID {
			h.sendTo(c, out)
		}
	}
}

// sendTo не блокирует хаб: подключение с переполненным буфером отключается
func (h *Hub) sendTo(c *Client, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Chat: failed to encode message: %v", err)
		return
	}

	select {
	case c.send <- payload:
	default:
		delete(h.clients, c)
		close(c.send)
		h.logger.Warn("Chat: slow connection dropped user_id=%d", c.userID)
	}
}
