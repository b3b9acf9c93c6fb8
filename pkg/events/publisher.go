package events

import "sync"

// EventType represents the type of event
type EventType string

// Define event types
const (
	EventClockStarted  EventType = "CLOCK_STARTED"
	EventClockSwitched EventType = "CLOCK_SWITCHED"
	EventClockStopped  EventType = "CLOCK_STOPPED"
	EventClockReset    EventType = "CLOCK_RESET"
	EventClockTick     EventType = "CLOCK_TICK"
	EventFlagDown      EventType = "FLAG_DOWN"
)

// allEvents is the subscription key for handlers interested in every event
const allEvents EventType = "*"

// Event represents an event in the system
type Event struct {
	Type      EventType
	SessionID string // Optional, can be empty for non-session events
	Payload   interface{}
}

// Handler is a function that processes events
type Handler func(event Event)

// Publisher is the central event publisher. Handlers run synchronously on
// the publishing goroutine, in subscription order, so a front-end sees state
// changes in the order they happened.
type Publisher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
}

// NewPublisher creates a new event publisher
func NewPublisher() *Publisher {
	return &Publisher{
		subscribers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (p *Publisher) Subscribe(eventType EventType, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers[eventType] = append(p.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for all event types
func (p *Publisher) SubscribeAll(handler Handler) {
	p.Subscribe(allEvents, handler)
}

// Publish broadcasts an event to its subscribers, then to the "all events"
// handlers
func (p *Publisher) Publish(event Event) {
	p.mu.RLock()
	handlers := make([]Handler, 0, len(p.subscribers[event.Type])+len(p.subscribers[allEvents]))
	handlers = append(handlers, p.subscribers[event.Type]...)
	handlers = append(handlers, p.subscribers[allEvents]...)
	p.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
