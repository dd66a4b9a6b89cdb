package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"truckbot/models"

	"github.com/gorilla/websocket"
)

// Hub fans game events out to dashboard websocket clients: the live map
// subscribes here to watch trucks move around. Broadcasts are fire-and-
// forget; a slow client is dropped rather than ever blocking a handler.
type Hub struct {
	clients    map[*MapClient]bool
	broadcast  chan []byte
	register   chan *MapClient
	unregister chan *MapClient
	mutex      sync.RWMutex

	catalog *CatalogService
}

type MapClient struct {
	hub    *Hub
	id     string
	socket *websocket.Conn
	send   chan []byte
}

type MapEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub(catalog *CatalogService) *Hub {
	return &Hub{
		clients:    make(map[*MapClient]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *MapClient),
		unregister: make(chan *MapClient),
		catalog:    catalog,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Map client registered: %s - Total clients: %d", client.id, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Map client unregistered: %s - Total clients: %d", client.id, len(h.clients))
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

func (h *Hub) Broadcast(eventType string, payload interface{}) {
	event := MapEvent{Type: eventType, Payload: payload}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling map event: %v", err)
		return
	}
	h.broadcast <- data
}

// PlayerMoved publishes a position change to the live map.
func (h *Hub) PlayerMoved(player *models.Player) {
	pos := player.Pos()
	h.Broadcast("player_moved", map[string]interface{}{
		"player_id": player.ID,
		"name":      player.Name,
		"x":         pos.X,
		"y":         pos.Y,
	})
}

func (h *Hub) JobCompleted(player *models.Player, completion *JobCompletion) {
	h.Broadcast("job_completed", map[string]interface{}{
		"player_id":   player.ID,
		"origin":      completion.Job.Origin,
		"destination": completion.Job.Destination,
		"reward":      completion.Job.Reward,
	})
}

func (h *Hub) CompanyFounded(company *models.Company) {
	hq := company.HQ()
	h.Broadcast("company_founded", map[string]interface{}{
		"name": company.Name,
		"logo": company.Logo,
		"x":    hq.X,
		"y":    hq.Y,
	})
}

// RegisterClient wires up a freshly upgraded connection. The initial message
// is the static map (places), so the client can draw the board before any
// event arrives.
func (h *Hub) RegisterClient(conn *websocket.Conn) *MapClient {
	client := &MapClient{
		hub:    h,
		id:     fmt.Sprintf("map_%d", time.Now().UnixNano()),
		socket: conn,
		send:   make(chan []byte, 256),
	}

	h.register <- client

	if h.catalog != nil {
		snapshot := MapEvent{Type: "map_snapshot", Payload: map[string]interface{}{
			"border": models.MapBorder,
			"places": h.catalog.Places(),
		}}
		if data, err := json.Marshal(snapshot); err == nil {
			client.send <- data
		}
	}

	go client.writePump()
	go client.readPump()

	return client
}

func (c *MapClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()

	// the feed is read-only; inbound traffic is drained and ignored except
	// for spotting the close
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Map client read error: %v", err)
			}
			break
		}
	}
}

func (c *MapClient) writePump() {
	defer func() {
		c.socket.Close()
	}()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}
