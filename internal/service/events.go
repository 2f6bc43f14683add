package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventSettingsLoaded   EventType = "settings_loaded"
	EventSettingsUpdated  EventType = "settings_updated"
	EventSettingsReplaced EventType = "settings_replaced"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// SettingsChange is the payload of settings events
type SettingsChange struct {
	Action      string `json:"action"`
	TargetID    string `json:"target_id,omitempty"`
	Diagnostics int    `json:"diagnostics"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
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

// Name returns the event type, used as the SSE event name
func (e Event) Name() string {
	return string(e.Type)
}
