package websocket

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/order-api/internal/events"
)

// Handler streams entity change events to websocket clients.
type Handler struct {
	upgrader websocket.Upgrader
	logger   hclog.Logger
	bus      *events.Bus[any]
}

// Message is the wire envelope for one change event.
type Message struct {
	EventType string `json:"event-type"`
	Data      any    `json:"data"`
}

func NewHandler(logger hclog.Logger, bus *events.Bus[any]) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
		bus:    bus,
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Unable to upgrade to WebSocket", "error", err)
		return
	}
	defer conn.Close()

	subscriber := h.bus.Subscribe()
	defer h.bus.Unsubscribe(subscriber)

	done := make(chan struct{})
	go h.readPump(conn, done)

	for {
		select {
		case event := <-subscriber:
			name, ok := eventName(event)
			if !ok {
				h.logger.Warn("Unknown event type", "event", event)
				continue
			}

			payload, err := json.Marshal(Message{EventType: name, Data: event})
			if err != nil {
				h.logger.Error("Error marshalling message", "error", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Error("Error writing message to WebSocket", "error", err)
				return
			}
		case <-done:
			h.logger.Info("WebSocket connection closed by the client")
			return
		}
	}
}

func eventName(event any) (string, bool) {
	switch event.(type) {
	case events.ProductCreated:
		return "product_created", true
	case events.ProductUpdated:
		return "product_updated", true
	case events.ProductDeleted:
		return "product_deleted", true
	case events.UserCreated:
		return "user_created", true
	case events.UserUpdated:
		return "user_updated", true
	case events.UserDeleted:
		return "user_deleted", true
	case events.OrderCreated:
		return "order_created", true
	case events.OrderUpdated:
		return "order_updated", true
	case events.OrderDeleted:
		return "order_deleted", true
	}
	return "", false
}

func (h *Handler) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("Error reading message", "error", err)
			}
			return
		}
	}
}
