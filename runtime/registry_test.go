package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pairchat/domain"
	"pairchat/mocks"
)

func TestRegistry_AttachLookup(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	sink := mocks.NewMockEventSink(ctrl)

	registry.Attach("alice", sink)

	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(sink, found)

	_, ok = registry.Lookup("bob")
	req.False(ok)
}

func TestRegistry_ReplaceKeepsLatestConnection(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	older := mocks.NewMockEventSink(ctrl)
	newer := mocks.NewMockEventSink(ctrl)

	// Given two connections for the same identity
	oldReg := registry.Attach("alice", older)
	newReg := registry.Attach("alice", newer)
	req.NotEqual(oldReg, newReg)

	// Then only the newest is addressable
	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(newer, found)
	req.Len(registry.Snapshot(), 1)
}

func TestRegistry_StaleDetachCannotEvictReplacement(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	older := mocks.NewMockEventSink(ctrl)
	newer := mocks.NewMockEventSink(ctrl)

	oldReg := registry.Attach("alice", older)
	registry.Attach("alice", newer)

	// When the replaced connection tears down late
	registry.Detach("alice", oldReg)

	// Then the replacement stays registered
	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(newer, found)
}

func TestRegistry_DetachRemovesOwner(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	sink := mocks.NewMockEventSink(ctrl)

	reg := registry.Attach("alice", sink)
	registry.Detach("alice", reg)

	_, ok := registry.Lookup("alice")
	req.False(ok)
	req.Empty(registry.Snapshot())
}

func TestRegistry_SnapshotIsSorted(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	for _, id := range []domain.Identity{"clara", "alice", "bob"} {
		registry.Attach(id, mocks.NewMockEventSink(ctrl))
	}

	req.Equal([]domain.Identity{"alice", "bob", "clara"}, registry.Snapshot())
}
