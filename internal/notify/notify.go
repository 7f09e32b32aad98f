// Package notify delivers task and attendance events to workers.
// Delivery is best-effort and fully decoupled from the operations that
// emit events: a full buffer drops the event, a failing sink only logs.
package notify

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Sink is one delivery target for events.
type Sink interface {
	Send(event Event) error
}

// Dispatcher fans events out to its sinks from a single background
// goroutine.
type Dispatcher struct {
	ch    chan Event
	sinks []Sink
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	d := &Dispatcher{
		ch:    make(chan Event, buffer),
		sinks: sinks,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for event := range d.ch {
		for _, sink := range d.sinks {
			if err := sink.Send(event); err != nil {
				log.Printf("Error delivering %s event %s: %v", event.Type, event.ID, err)
			}
		}
	}
}

// Emit queues an event without blocking the caller. Events are dropped
// when the buffer is full or the dispatcher is shut down.
func (d *Dispatcher) Emit(eventType string, payload map[string]any) {
	event := Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now(),
		Payload:    payload,
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.Printf("Dropping %s event: dispatcher is shut down", eventType)
		return
	}
	select {
	case d.ch <- event:
	default:
		log.Printf("Dropping %s event: notification buffer full", eventType)
	}
}

// Shutdown stops accepting events and waits for queued ones to drain.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.ch)
	d.mu.Unlock()

	d.wg.Wait()
}

// LogSink writes every event to the application log.
type LogSink struct{}

func (LogSink) Send(event Event) error {
	log.Printf("[event] %s %s %v", event.Type, event.ID, event.Payload)
	return nil
}
