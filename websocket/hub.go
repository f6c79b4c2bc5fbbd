package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// Event is a server-push notification: booking status changes, payment
// confirmations and payout decisions.
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)

func init() {
	go RunHub()
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		}
	}
}

// Notify pushes an event to a single connected user. Users without an open
// connection are skipped silently; email covers the offline case.
func Notify(userID uuid.UUID, event Event) {
	clientsMu.RLock()
	conn, ok := clients[userID]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		log.Printf("Error sending event to client %s: %v", userID, err)
		conn.Close()
		clientsMu.Lock()
		delete(clients, userID)
		clientsMu.Unlock()
	}
}
