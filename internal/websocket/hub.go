package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/studiopipe/gateway/internal/model"
)

// Client represents a WebSocket client subscribed to one transfer.
type Client struct {
	TransferID int
	Conn       *websocket.Conn
	Send       chan []byte
}

// Hub maintains active WebSocket connections grouped by transfer id.
type Hub struct {
	clients map[int]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	mu sync.RWMutex
}

// BroadcastMessage represents a message to broadcast.
type BroadcastMessage struct {
	TransferID int
	Message    []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.TransferID] == nil {
				h.clients[client.TransferID] = make(map[*Client]bool)
			}
			h.clients[client.TransferID][client] = true
			h.mu.Unlock()
			log.Printf("Client subscribed to transfer %d", client.TransferID)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.TransferID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.clients, client.TransferID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("Client unsubscribed from transfer %d", client.TransferID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			if clients, ok := h.clients[msg.TransferID]; ok {
				for client := range clients {
					select {
					case client.Send <- msg.Message:
					default:
						close(client.Send)
						delete(clients, client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a new client.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastProgress sends a progress update to all transfer subscribers.
func (h *Hub) BroadcastProgress(transferID int, status string, progress int) {
	msg := model.WSProgressMessage{
		Type:       model.WSMessageTypeProgress,
		TransferID: transferID,
		Status:     status,
		Progress:   progress,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal progress message: %v", err)
		return
	}

	h.broadcast <- &BroadcastMessage{
		TransferID: transferID,
		Message:    data,
	}
}

// BroadcastComplete sends a completion message to all transfer subscribers.
func (h *Hub) BroadcastComplete(transferID int, result interface{}) {
	msg := model.WSCompleteMessage{
		Type:       model.WSMessageTypeComplete,
		TransferID: transferID,
		Result:     result,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal complete message: %v", err)
		return
	}

	h.broadcast <- &BroadcastMessage{
		TransferID: transferID,
		Message:    data,
	}
}

// BroadcastError sends an error message to all transfer subscribers.
func (h *Hub) BroadcastError(transferID int, code, message string) {
	msg := model.WSErrorMessage{
		Type:       model.WSMessageTypeError,
		TransferID: transferID,
		Error: model.WSError{
			Code:    code,
			Message: message,
		},
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal error message: %v", err)
		return
	}

	h.broadcast <- &BroadcastMessage{
		TransferID: transferID,
		Message:    data,
	}
}

// HandleConnection handles a WebSocket connection subscribed to one
// transfer.
func (h *Hub) HandleConnection(c *websocket.Conn, transferID int) {
	client := &Client{
		TransferID: transferID,
		Conn:       c,
		Send:       make(chan []byte, 256),
	}

	h.Register(client)
	defer h.Unregister(client)

	// Writer goroutine
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case message, ok := <-client.Send:
				if !ok {
					c.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}

			case <-ticker.C:
				// Keep-alive
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Reader loop
	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg model.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == model.WSMessageTypePing {
			pong, _ := json.Marshal(model.WSMessage{Type: model.WSMessageTypePong})
			select {
			case client.Send <- pong:
			default:
			}
		}
	}
}
