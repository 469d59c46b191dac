package runtime

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pairchat/domain"
	"pairchat/domain/event"
	"pairchat/mocks"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	return NewHub(slog.Default(), NewRegistry(), 16)
}

func drain(t *testing.T, hub *Hub) Broadcast {
	t.Helper()
	select {
	case job := <-hub.Broadcasts():
		return job
	default:
		t.Fatal("expected a queued broadcast")
		return Broadcast{}
	}
}

func TestHub_AttachQueuesSnapshot(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hub := newTestHub(t)
	alice := mocks.NewMockEventSink(ctrl)

	hub.Attach("alice", alice)

	job := drain(t, hub)
	req.Equal([]domain.Identity{"alice"}, job.Snapshot.Online)
	req.Len(job.Audience, 1)
}

func TestHub_EveryMutationQueuesTheFullState(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hub := newTestHub(t)
	alice := mocks.NewMockEventSink(ctrl)
	bob := mocks.NewMockEventSink(ctrl)

	hub.Attach("alice", alice)
	req.Equal([]domain.Identity{"alice"}, drain(t, hub).Snapshot.Online)

	hub.Attach("bob", bob)
	job := drain(t, hub)
	req.Equal([]domain.Identity{"alice", "bob"}, job.Snapshot.Online)
	req.Len(job.Audience, 2)
}

func TestHub_DepartingConnectionStaysInItsFarewellAudience(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hub := newTestHub(t)
	alice := mocks.NewMockEventSink(ctrl)
	bob := mocks.NewMockEventSink(ctrl)

	regAlice := hub.Attach("alice", alice)
	hub.Attach("bob", bob)
	drain(t, hub)
	drain(t, hub)

	// When alice leaves
	hub.Detach("alice", regAlice, alice)

	// Then the farewell snapshot no longer lists her but is still
	// addressed to her connection
	job := drain(t, hub)
	req.Equal([]domain.Identity{"bob"}, job.Snapshot.Online)
	req.Len(job.Audience, 2)
}

func TestHub_StaleDetachStillBroadcastsCurrentState(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hub := newTestHub(t)
	older := mocks.NewMockEventSink(ctrl)
	newer := mocks.NewMockEventSink(ctrl)

	oldReg := hub.Attach("alice", older)
	hub.Attach("alice", newer)
	drain(t, hub)
	drain(t, hub)

	// The replaced connection tears down late; its token no longer owns
	// the registration, so alice stays online
	hub.Detach("alice", oldReg, older)

	job := drain(t, hub)
	req.Equal([]domain.Identity{"alice"}, job.Snapshot.Online)
}

func TestHub_AnonymousConnectionsSeePresenceButNeverAppear(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hub := newTestHub(t)
	ghost := mocks.NewMockEventSink(ctrl)
	alice := mocks.NewMockEventSink(ctrl)

	hub.AttachAnonymous(ghost)
	job := drain(t, hub)
	req.Empty(job.Snapshot.Online)
	req.Len(job.Audience, 1)

	hub.Attach("alice", alice)
	job = drain(t, hub)
	req.Equal([]domain.Identity{"alice"}, job.Snapshot.Online)
	req.Len(job.Audience, 2)
}

func TestHub_PushDeliversPayloadIdenticalMessage(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hub := newTestHub(t)
	bob := mocks.NewMockEventSink(ctrl)
	hub.Attach("bob", bob)

	message := domain.Message{SenderID: "alice", ReceiverID: "bob", Text: "hello"}

	var consumed event.DomainEvent
	bob.EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.DomainEvent) error {
			consumed = e
			return nil
		}).
		Times(1)

	req.True(hub.Push(context.Background(), message))

	delivered, ok := consumed.(event.MessageDelivered)
	req.True(ok)
	req.Equal(message, delivered.Message)
}

func TestHub_PushToAbsentReceiverIsAMiss(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t)

	delivered := hub.Push(context.Background(), domain.Message{SenderID: "alice", ReceiverID: "bob"})
	req.False(delivered)
}

func TestHub_PushToRefusingSinkIsAMiss(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hub := newTestHub(t)
	bob := mocks.NewMockEventSink(ctrl)
	hub.Attach("bob", bob)

	bob.EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		Return(context.DeadlineExceeded).
		Times(1)

	req.False(hub.Push(context.Background(), domain.Message{SenderID: "alice", ReceiverID: "bob"}))
}
