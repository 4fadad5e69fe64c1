package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// RoomMessage is a payload addressed to every member of a room.
type RoomMessage struct {
	Room string
	Data []byte
}

// Subscription asks the hub to move a client into a room.
type Subscription struct {
	Client *Client
	Room   string
}

// Hub maintains the set of active clients and fans messages out to rooms.
// It keeps no history: a client joining after a message was sent never
// sees it.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Room membership, keyed by room name.
	rooms map[string]map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Join requests from clients.
	Join chan Subscription

	// Inbound messages to fan out.
	Broadcast chan RoomMessage

	// Mutex to protect the rooms map for out-of-loop readers
	mutex sync.Mutex

	log *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Join:       make(chan Subscription),
		Broadcast:  make(chan RoomMessage),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.leaveRoom(client)
				delete(h.clients, client)
				close(client.Send)
			}
		case sub := <-h.Join:
			h.joinRoom(sub.Client, sub.Room)
		case message := <-h.Broadcast:
			h.broadcast(message.Room, message.Data)
		}
	}
}

// joinRoom moves a client out of its previous room and into the named one,
// then announces the arrival. Any authenticated caller may join any room;
// there is no membership check.
func (h *Hub) joinRoom(client *Client, room string) {
	h.leaveRoom(client)

	h.mutex.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.Room = room
	h.mutex.Unlock()

	h.log.Info("client joined room",
		zap.Uint("vendor_id", client.VendorID),
		zap.String("room", room))

	notice, _ := json.Marshal(map[string]interface{}{
		"type": "status",
		"room": room,
		"msg":  "A user has entered the room.",
	})
	h.broadcast(room, notice)
}

func (h *Hub) leaveRoom(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if client.Room == "" {
		return
	}
	if members, ok := h.rooms[client.Room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, client.Room)
		}
	}
	client.Room = ""
}

// broadcast re-sends data verbatim to every member of the room.
func (h *Hub) broadcast(room string, data []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.rooms[room] {
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.clients, client)
			delete(h.rooms[room], client)
		}
	}
}

// RoomSize reports how many clients are currently in a room.
func (h *Hub) RoomSize(room string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.rooms[room])
}
