package runtime

import (
	"context"
	"log/slog"
	"sync"

	"pairchat/contract"
	"pairchat/domain"
	"pairchat/domain/event"
)

// Broadcast is one queued presence delivery: the snapshot plus the audience
// captured at mutation time. Capturing the audience with the snapshot keeps
// the departing connection in the recipient list of its own farewell
// broadcast, where still reachable.
type Broadcast struct {
	Snapshot event.PresenceChanged
	Audience []contract.EventSink
}

// Hub owns the connection registry and the presence pipeline. It is the
// only mutator of the registry, so every mutation and its snapshot are
// serialized under the hub lock: a queued snapshot always equals the
// registry content at the instant of the mutation that produced it.
//
// Identified and anonymous connections both belong to the audience and
// receive presence broadcasts; only identified ones are relay targets.
type Hub struct {
	mu         sync.Mutex
	log        *slog.Logger
	registry   contract.IRegistry
	audience   map[contract.EventSink]struct{}
	broadcasts chan Broadcast
}

func NewHub(log *slog.Logger, registry contract.IRegistry, bufferSize int) *Hub {
	return &Hub{
		log:        log,
		registry:   registry,
		audience:   make(map[contract.EventSink]struct{}),
		broadcasts: make(chan Broadcast, bufferSize),
	}
}

// Attach registers an identified connection, replacing any previous one for
// the same identity, and queues a presence broadcast.
func (h *Hub) Attach(id domain.Identity, sink contract.EventSink) contract.Registration {
	h.mu.Lock()
	h.audience[sink] = struct{}{}
	reg := h.registry.Attach(id, sink)
	job := h.snapshotLocked()
	h.mu.Unlock()

	h.publish(job)
	return reg
}

// Detach removes the registration if reg still owns it and queues a
// presence broadcast that still includes the departing sink.
func (h *Hub) Detach(id domain.Identity, reg contract.Registration, sink contract.EventSink) {
	h.mu.Lock()
	h.registry.Detach(id, reg)
	job := h.snapshotLocked()
	delete(h.audience, sink)
	h.mu.Unlock()

	h.publish(job)
}

// AttachAnonymous adds a connection without an identity: it receives
// presence broadcasts but never appears in a snapshot and is never a relay
// target. The current snapshot is re-queued so the newcomer learns it.
func (h *Hub) AttachAnonymous(sink contract.EventSink) {
	h.mu.Lock()
	h.audience[sink] = struct{}{}
	job := h.snapshotLocked()
	h.mu.Unlock()

	h.publish(job)
}

func (h *Hub) DetachAnonymous(sink contract.EventSink) {
	h.mu.Lock()
	delete(h.audience, sink)
	h.mu.Unlock()
}

// Push relays a persisted message to the receiver's live connection.
// Best effort: a miss or a refused consume is not an error, the durable log
// already holds the message and the receiver catches up on its next
// history fetch.
func (h *Hub) Push(ctx context.Context, msg domain.Message) bool {
	sink, ok := h.registry.Lookup(msg.ReceiverID)
	if !ok {
		return false
	}
	if err := sink.Consume(ctx, event.MessageDelivered{Message: msg}); err != nil {
		h.log.Debug("push dropped", "receiver", msg.ReceiverID, "error", err)
		return false
	}
	return true
}

// Broadcasts is the queue the presence broadcaster worker drains.
func (h *Hub) Broadcasts() <-chan Broadcast {
	return h.broadcasts
}

// snapshotLocked captures the registry snapshot and the current audience.
// Callers must hold h.mu.
func (h *Hub) snapshotLocked() Broadcast {
	audience := make([]contract.EventSink, 0, len(h.audience))
	for sink := range h.audience {
		audience = append(audience, sink)
	}
	return Broadcast{
		Snapshot: event.PresenceChanged{Online: h.registry.Snapshot()},
		Audience: audience,
	}
}

// publish queues a broadcast without ever blocking a connection handler.
// Snapshots are full states, so one dropped under backpressure is
// superseded by the next queued broadcast.
func (h *Hub) publish(job Broadcast) {
	select {
	case h.broadcasts <- job:
	default:
		h.log.Warn("presence queue full, dropping snapshot", "online", len(job.Snapshot.Online))
	}
}
