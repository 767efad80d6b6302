package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 32
)

// EventRestaurantOnline is the client-to-server event a dashboard sends to
// subscribe to its restaurant's group.
const EventRestaurantOnline = "restaurant-online"

// Presence records whether a restaurant currently has a connected
// dashboard. A nil Presence disables the bookkeeping.
type Presence interface {
	SetOnlineByID(ctx context.Context, restaurantID string, online bool) error
}

type clientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type client struct {
	hub          *Hub
	conn         *websocket.Conn
	session      *Session
	presence     Presence
	logger       *zap.SugaredLogger
	restaurantID string
}

// ServeWS upgrades the request to a websocket connection and runs the
// session against the hub until the transport drops.
func ServeWS(hub *Hub, presence Presence, logger *zap.SugaredLogger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// the browser client is served from another origin
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Errorw("websocket upgrade failed", "error", err)
			return
		}

		c := &client{
			hub:      hub,
			conn:     conn,
			session:  NewSession(sendBuffer),
			presence: presence,
			logger:   logger,
		}

		go c.writePump()
		c.readPump()
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.Disconnect(c.session)
		c.conn.Close()
		c.setOnline(context.Background(), false)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warnw("websocket closed unexpectedly", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Warnw("unreadable websocket message", "error", err)
			continue
		}

		switch msg.Event {
		case EventRestaurantOnline:
			restaurantID := decodeRestaurantID(msg.Data)
			if restaurantID == "" {
				c.logger.Warnw("restaurant-online without restaurant id")
				continue
			}
			if c.restaurantID != "" && c.restaurantID != restaurantID {
				// moving to another restaurant, the previous one is no longer watched
				c.setOnline(context.Background(), false)
			}
			c.hub.Join(c.session, restaurantID)
			c.restaurantID = restaurantID
			c.setOnline(context.Background(), true)
		default:
			c.logger.Debugw("ignoring unknown websocket event", "event", msg.Event)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.session.Receive():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub dropped the session
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) setOnline(ctx context.Context, online bool) {
	if c.presence == nil || c.restaurantID == "" {
		return
	}

	if err := c.presence.SetOnlineByID(ctx, c.restaurantID, online); err != nil {
		c.logger.Warnw("failed to update restaurant online flag",
			"restaurant_id", c.restaurantID,
			"online", online,
			"error", err,
		)
	}
}

// decodeRestaurantID accepts either a bare string ("R1") or an object
// ({"restaurantId":"R1"}), matching what dashboard clients send.
func decodeRestaurantID(data json.RawMessage) string {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id
	}

	var obj struct {
		RestaurantID string `json:"restaurantId"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		return obj.RestaurantID
	}

	return ""
}
