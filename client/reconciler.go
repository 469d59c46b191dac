// Package client implements the chat client: HTTP calls against the
// server API, the websocket listener, and the conversation view kept
// consistent between history fetches and live pushes.
package client

import (
	"sync"

	"pairchat/domain"
)

// View is a point-in-time copy of the client's conversation state.
type View struct {
	Counterpart domain.Identity
	Messages    []domain.Message
}

// Reconciler keeps one conversation view consistent across three inputs:
// the history fetch when a counterpart is selected, the optimistic append
// of the local user's own sends, and pushed messages arriving over the
// socket. Pushes for any conversation other than the selected one are
// dropped; the durable log replays them on the next selection.
type Reconciler struct {
	mu    sync.Mutex
	local domain.Identity
	view  View
}

func NewReconciler(local domain.Identity) *Reconciler {
	return &Reconciler{local: local}
}

// Select replaces the view wholesale with the fetched history. Whatever
// was displayed before, including optimistic appends, is discarded in
// favor of the authoritative log.
func (r *Reconciler) Select(counterpart domain.Identity, history []domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view = View{
		Counterpart: counterpart,
		Messages:    append([]domain.Message(nil), history...),
	}
}

// AppendLocal adds the local user's own persisted message to the view.
// The sender never receives its own messages over the socket, so this
// optimistic append is its only live path.
func (r *Reconciler) AppendLocal(msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view.Counterpart == "" || msg.ReceiverID != r.view.Counterpart {
		return
	}
	r.view.Messages = append(r.view.Messages, msg)
}

// ApplyPush folds a pushed message into the view if it belongs to the
// selected conversation. It reports whether the message was kept.
func (r *Reconciler) ApplyPush(msg domain.Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view.Counterpart == "" {
		return false
	}
	if msg.Counterpart(r.local) != r.view.Counterpart {
		return false
	}
	r.view.Messages = append(r.view.Messages, msg)
	return true
}

// Current returns a copy of the view safe to render without holding any
// lock.
func (r *Reconciler) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return View{
		Counterpart: r.view.Counterpart,
		Messages:    append([]domain.Message(nil), r.view.Messages...),
	}
}
