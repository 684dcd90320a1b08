package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// clientMessage is what a websocket client may send.
type clientMessage struct {
	Action string      `json:"action"`
	From   board.Coord `json:"from"`
	To     board.Coord `json:"to"`
}

// StreamHandler upgrades to a websocket that carries every event of the
// room, starting with a snapshot. Clients may propose swaps on it.
func StreamHandler(m *Manager, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := m.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "room", room.ID(), "error", err)
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, unsubscribe, err := room.Subscribe(ctx)
		if err != nil {
			_ = conn.Close()
			return
		}
		defer unsubscribe()

		replies := make(chan Message, 8)
		go writePump(ctx, conn, events, replies)

		logger.Debug("stream opened", "room", room.ID(), "remote", c.Request.RemoteAddr)
		readPump(ctx, conn, room, replies)
		logger.Debug("stream closed", "room", room.ID())
	}
}

// readPump handles client messages until the connection drops.
func readPump(ctx context.Context, conn *websocket.Conn, room *Room, replies chan<- Message) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			reply(replies, Message{Type: "error", Data: gin.H{"error": "invalid message"}})
			continue
		}

		switch msg.Action {
		case "swap":
			if err := room.Swap(ctx, msg.From, msg.To); err != nil {
				reply(replies, Message{Type: "error", Data: gin.H{"error": err.Error()}})
			}
		default:
			reply(replies, Message{Type: "error", Data: gin.H{"error": "unknown action " + msg.Action}})
		}
	}
}

func reply(replies chan<- Message, msg Message) {
	select {
	case replies <- msg:
	default:
	}
}

// writePump is the only writer on conn. It closes conn when the room
// stream ends or the reader has gone.
func writePump(ctx context.Context, conn *websocket.Conn, events <-chan Message, replies <-chan Message) {
	defer conn.Close()
	for {
		var msg Message
		select {
		case <-ctx.Done():
			return
		case m, ok := <-events:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "board closed"))
				return
			}
			msg = m
		case m := <-replies:
			msg = m
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
