package libraries

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tacboard-backend/internal/realtime"
)

const sendBuffer = 256

type Client struct {
	ID   string
	Room string
	Conn *websocket.Conn
	Send chan []byte
	once sync.Once
}

func NewClient(room string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Room: room,
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.Send)
	})
}

// RoomMessage is a frame for every member of Room except Except.
type RoomMessage struct {
	Room    string
	Except  string
	Payload []byte
}

// Hub relays realtime messages between the clients of each strategy room.
// All room state is owned by the Run goroutine.
type Hub struct {
	Rooms      map[string]map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan RoomMessage
}

func NewHub() *Hub {
	return &Hub{
		Rooms:      make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan RoomMessage, sendBuffer),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			room, ok := h.Rooms[client.Room]
			if !ok {
				room = make(map[string]*Client)
				h.Rooms[client.Room] = room
			}
			room[client.ID] = client
			sendTyped(h, client, realtime.TypeHello, realtime.HelloPayload{SenderID: client.ID})
		case client := <-h.Unregister:
			room := h.Rooms[client.Room]
			if _, exists := room[client.ID]; exists {
				delete(room, client.ID)
				client.close()
				if len(room) == 0 {
					delete(h.Rooms, client.Room)
				}
			}
		case msg := <-h.Broadcast:
			for id, client := range h.Rooms[msg.Room] {
				if id == msg.Except {
					continue
				}
				select {
				case client.Send <- msg.Payload:
				default:
					log.Printf("hub: dropping frame for slow client %s", id)
				}
			}
		}
	}
}

// BroadcastRoom queues payload for every client in room except the one
// with id except.
func (h *Hub) BroadcastRoom(room string, payload []byte, except string) {
	h.Broadcast <- RoomMessage{Room: room, Except: except, Payload: payload}
}

// Publish sends a typed message to a room on behalf of sender.
func (h *Hub) Publish(room string, t realtime.MessageType, data any, sender string) error {
	msg, err := realtime.NewMessage(t, data)
	if err != nil {
		return err
	}
	msg.SenderID = sender
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.BroadcastRoom(room, b, sender)
	return nil
}

func (h *Hub) SendMessage(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		log.Printf("hub: dropping frame for slow client %s", client.ID)
	}
}

// SendErrorMessage sends a standardized error message to a client
func SendErrorMessage(hub *Hub, client *Client, errorMsg string) {
	sendTyped(hub, client, realtime.TypeError, realtime.ErrorPayload{Message: errorMsg})
}

func sendTyped(hub *Hub, client *Client, t realtime.MessageType, data any) {
	msg, err := realtime.NewMessage(t, data)
	if err != nil {
		log.Println("failed to build message:", err)
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		log.Println("failed to marshal message:", err)
		return
	}
	hub.SendMessage(client, b)
}

// HandleIncoming processes one frame read from client.
func (h *Hub) HandleIncoming(client *Client, raw []byte) {
	msg, err := realtime.ParseMessage(raw)
	if err != nil {
		log.Println("failed to parse JSON:", err)
		SendErrorMessage(h, client, "Invalid JSON format")
		return
	}

	switch msg.Type {
	case realtime.TypePing:
		sendTyped(h, client, realtime.TypePong, nil)
	case realtime.TypeFullUpdate, realtime.TypeCursor, realtime.TypeObjectMove:
		if len(msg.Data) == 0 {
			SendErrorMessage(h, client, "Payload is required")
			return
		}
		// the sender id always comes from the hub
		msg.SenderID = client.ID
		b, err := json.Marshal(msg)
		if err != nil {
			log.Println("failed to marshal relay:", err)
			return
		}
		h.BroadcastRoom(client.Room, b, client.ID)
	default:
		SendErrorMessage(h, client, "Type is invalid or not provided")
	}
}

// Leave tells the rest of the room that client went away.
func (h *Hub) Leave(client *Client) {
	if err := h.Publish(client.Room, realtime.TypeLeave, nil, client.ID); err != nil {
		log.Println("failed to publish leave:", err)
	}
}

// WebSocketHandler serves /ws/:id; the id names the strategy room.
func WebSocketHandler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := NewClient(conn.Params("id"), conn)
		hub.Register <- client

		// Write loop
		go func() {
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Println("write error:", err)
					return
				}
			}
		}()

		// Read loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				break
			}
			hub.HandleIncoming(client, msg)
		}

		hub.Leave(client)
		hub.Unregister <- client
		conn.Close()
	})
}
