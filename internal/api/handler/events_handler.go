package handler

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
	"github.com/digitalgoods/storefront/internal/pkg/notify"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Event types pushed to browsers.
const (
	EventSession     = "session"
	EventCartChanged = "cart_changed"
)

// CartFeed is the cart-changed topic as seen by the events stream.
type CartFeed interface {
	Subscribe(fn func(domain.CartChanged)) *notify.Subscription
}

type eventMessage struct {
	Type    string           `json:"type"`
	Session *sessionResponse `json:"session,omitempty"`
}

// EventsHandler pushes session and cart changes to a browser over WebSocket,
// so pages that render auth-dependent or cart-dependent content can refresh.
type EventsHandler struct {
	session  ports.SessionService
	cart     CartFeed
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewEventsHandler(session ports.SessionService, cart CartFeed, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		session: session,
		cart:    cart,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log.With().Str("component", "events").Logger(),
	}
}

// Stream handles GET /api/events. The first message is the current session.
func (h *EventsHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already answered the request.
		return nil
	}
	defer conn.Close()

	send := make(chan []byte, sendBuffer)
	enqueue := func(msg eventMessage) {
		data, err := json.Marshal(msg)
		if err != nil {
			return
		}
		select {
		case send <- data:
		default:
			h.log.Debug().Str("type", msg.Type).Msg("events: slow client, message dropped")
		}
	}

	sessionSub := h.session.Subscribe(func(st domain.SessionState) {
		resp := toSessionResponse(st)
		enqueue(eventMessage{Type: EventSession, Session: &resp})
	})
	defer sessionSub.Unsubscribe()
	cartSub := h.cart.Subscribe(func(domain.CartChanged) {
		enqueue(eventMessage{Type: EventCartChanged})
	})
	defer cartSub.Unsubscribe()

	initial := toSessionResponse(h.session.State())
	enqueue(eventMessage{Type: EventSession, Session: &initial})

	closed := make(chan struct{})
	go h.readPump(conn, closed)
	h.writePump(conn, send, closed)
	return nil
}

// readPump discards inbound frames; it exists to process pongs and notice
// the peer going away.
func (h *EventsHandler) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Msg("events: read failed")
			}
			return
		}
	}
}

func (h *EventsHandler) writePump(conn *websocket.Conn, send <-chan []byte, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case data := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
