package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

type Client struct {
	ID    string
	Send  chan []byte
	Topic string
}

// Hub fans recorded insights and alerts out to connected dashboard
// sessions. A client with an empty topic receives every event.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt time.Time   `json:"created_at"`
}

type SubscribeMessage struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

func New() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client.ID)
	close(client.Send)
}

func (h *Hub) UpdateTopic(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.Topic = topic
}

// Publish implements insight.Publisher. Slow clients are skipped rather
// than blocking the pipeline.
func (h *Hub) Publish(event string, payload interface{}) {
	data, err := json.Marshal(Envelope{Type: event, Payload: payload, CreatedAt: time.Now().UTC()})
	if err != nil {
		log.Printf("hub marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.Topic != "" && client.Topic != event {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Printf("drop message for client %s", client.ID)
		}
	}
}

func ParseSubscribe(data []byte) (SubscribeMessage, bool) {
	var msg SubscribeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SubscribeMessage{}, false
	}
	if msg.Action != "subscribe" && msg.Action != "unsubscribe" {
		return SubscribeMessage{}, false
	}
	return msg, true
}
