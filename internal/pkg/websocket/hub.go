package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/schoolhub/internal/app/models"
)

// SchoolChannel is the feed every client receives
const SchoolChannel int64 = 0

// Hub maintains the set of active clients and fans announcements out to them
type Hub struct {
	// Registered clients organized by channel (class ID, or 0 for school-wide only)
	clients map[int64]map[*Client]bool

	// Outbound events queued by Publish
	broadcast chan *Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// Event is one announcement pushed to subscribers
type Event struct {
	Type         string               `json:"type"`
	Channel      int64                `json:"channel"`
	Announcement *models.Announcement `json:"announcement"`
	Timestamp    time.Time            `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[int64]map[*Client]bool),
		logger:     logger,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Publish queues an announcement for delivery. Announcements on the school
// channel reach every client; class announcements reach that class only.
func (h *Hub) Publish(channel int64, announcement *models.Announcement) {
	event := &Event{
		Type:         "announcement.created",
		Channel:      channel,
		Announcement: announcement,
		Timestamp:    time.Now(),
	}

	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().
			Int64("channel", channel).
			Int64("announcementID", announcement.ID).
			Msg("Broadcast queue full, dropping announcement event")
	}
}

// join hands client to Run. It returns false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave hands client back to Run; after shutdown there is nothing to do.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.channel]; !ok {
		h.clients[client.channel] = make(map[*Client]bool)
	}
	h.clients[client.channel][client] = true

	h.logger.Info().
		Int64("channel", client.channel).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.channel]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.channel)
	}

	h.logger.Info().
		Int64("channel", client.channel).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client unregistered")
}

func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("channel", event.Channel).
			Msg("Failed to marshal announcement event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var targets []*Client
	for channel, clients := range h.clients {
		if event.Channel != SchoolChannel && channel != event.Channel {
			continue
		}
		for client := range clients {
			targets = append(targets, client)
		}
	}

	for _, client := range targets {
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop it rather than stall the hub
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Int64("channel", event.Channel).
		Int("clientCount", len(targets)).
		Msg("Announcement broadcasted")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// ClientsCount returns the number of clients subscribed to a channel
func (h *Hub) ClientsCount(channel int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[channel])
}
