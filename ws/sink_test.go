package ws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pairchat/domain"
	"pairchat/domain/event"
)

func TestSink_ConsumeBuffers(t *testing.T) {
	req := require.New(t)
	sink := NewSink(2)

	snapshot := event.PresenceChanged{Online: []domain.Identity{"alice"}}
	req.NoError(sink.Consume(context.Background(), snapshot))

	select {
	case e := <-sink.Events():
		req.Equal(snapshot, e)
	default:
		t.Fatal("event was not buffered")
	}
}

func TestSink_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	req := require.New(t)
	sink := NewSink(1)

	first := event.PresenceChanged{Online: []domain.Identity{"alice"}}
	second := event.PresenceChanged{Online: []domain.Identity{"alice", "bob"}}

	req.NoError(sink.Consume(context.Background(), first))
	// Buffer full: the second consume returns without blocking
	req.NoError(sink.Consume(context.Background(), second))

	req.Equal(first, <-sink.Events())
	select {
	case <-sink.Events():
		t.Fatal("dropped event should not be buffered")
	default:
	}
}

func TestSink_CanceledContext(t *testing.T) {
	req := require.New(t)
	sink := NewSink(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.Consume(ctx, event.PresenceChanged{})
	req.ErrorIs(err, context.Canceled)
}

func TestFrameFromEvent(t *testing.T) {
	req := require.New(t)

	frame, ok := FromEvent(event.PresenceChanged{Online: []domain.Identity{"alice"}})
	req.True(ok)
	req.Equal(FramePresence, frame.Type)
	req.Equal([]domain.Identity{"alice"}, frame.Online)

	message := domain.Message{SenderID: "alice", ReceiverID: "bob", Text: "hello"}
	frame, ok = FromEvent(event.MessageDelivered{Message: message})
	req.True(ok)
	req.Equal(FrameMessage, frame.Type)
	req.Equal(message, *frame.Message)
}
