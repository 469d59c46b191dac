//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"pairchat/domain"
	"pairchat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes, avoiding the need for
// manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the addressable end of one live connection.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Registration is the opaque token handed out when a connection is attached
// under an identity. Detaching requires the token, so tearing down a
// connection that has already been replaced cannot evict its replacement.
type Registration uint64

// IRegistry tracks which identities currently hold a live connection.
// At most one connection is registered per identity at any instant.
type IRegistry interface {
	Attach(id domain.Identity, sink EventSink) Registration
	Detach(id domain.Identity, reg Registration)
	Lookup(id domain.Identity) (EventSink, bool)
	Snapshot() []domain.Identity
}
