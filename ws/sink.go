// Package ws adapts live websocket connections to the hub's EventSink.
package ws

import (
	"context"

	"pairchat/domain/event"
)

// Sink buffers events bound for one websocket connection. The write pump
// on the other side of the channel serializes all writes to the socket.
type Sink struct {
	events chan event.DomainEvent
}

func NewSink(bufferSize int) *Sink {
	return &Sink{events: make(chan event.DomainEvent, bufferSize)}
}

// Consume hands the event to the connection's write pump. It never blocks
// the caller beyond the context: a full buffer drops the event, which is
// safe because presence snapshots are superseded by the next one and
// message pushes are backed by the durable log.
func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Events is drained by the connection's write pump.
func (s *Sink) Events() <-chan event.DomainEvent {
	return s.events
}
