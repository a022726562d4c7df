package player

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sendBufferSize = 16

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player is one websocket client watching the shared state.
type Player struct {
	ID   string
	Conn Connection

	send chan []byte
}

// NewPlayer wraps conn with a fresh id. An empty id gets a random one.
func NewPlayer(id string, conn Connection) *Player {
	if id == "" {
		id = uuid.New().String()
	}
	return &Player{
		ID:   id,
		Conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Enqueue queues data for WritePump. It reports false when the buffer is
// full. It must only be called by the goroutine that owns the player.
func (p *Player) Enqueue(data []byte) bool {
	select {
	case p.send <- data:
		return true
	default:
		return false
	}
}

// Close stops WritePump. Like Enqueue it belongs to the owning goroutine.
func (p *Player) Close() {
	close(p.send)
}

// WritePump writes queued messages until Close is called or a write fails,
// then closes the connection.
func (p *Player) WritePump() {
	defer p.Conn.Close()

	for data := range p.send {
		if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = p.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
