package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventDeviceCreated    EventType = "device_created"
	EventDeviceDeleted    EventType = "device_deleted"
	EventDeviceRenamed    EventType = "device_renamed"
	EventLinkCreated      EventType = "link_created"
	EventLinkDeleted      EventType = "link_deleted"
	EventLinkRenamed      EventType = "link_renamed"
	EventSelectionChanged EventType = "selection_changed"
	EventGraphCleared     EventType = "graph_cleared"
	EventGraphReplaced    EventType = "graph_replaced"
	EventViewportResized  EventType = "viewport_resized"
	EventFrame            EventType = "frame"
)

// Event represents an event that occurred in the session
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[int]chan<- Event
	next        int
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[int]chan<- Event),
	}
}

// Subscribe adds a subscriber to receive events. The returned function
// removes it again; the channel is never closed by the bus.
func (eb *EventBus) Subscribe(ch chan<- Event) (unsubscribe func()) {
	eb.mu.Lock()
	id := eb.next
	eb.next++
	eb.subscribers[id] = ch
	eb.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			eb.mu.Lock()
			delete(eb.subscribers, id)
			eb.mu.Unlock()
		})
	}
}

// Subscribers returns the number of current subscribers
func (eb *EventBus) Subscribers() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
