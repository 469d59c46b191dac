package workers

import (
	"context"
	"log/slog"
	"time"

	"pairchat/runtime"
)

// PresenceBroadcaster drains queued presence broadcasts and delivers each
// full snapshot to the audience captured with it.
//
// Delivery is best-effort with no guarantees regarding ordering across
// connections, durability, or retries. A slow or dead sink costs at most
// sinkTimeout and never blocks the other recipients.
type PresenceBroadcaster struct {
	log         *slog.Logger
	broadcasts  <-chan runtime.Broadcast
	sinkTimeout time.Duration
}

func NewPresenceBroadcaster(log *slog.Logger, broadcasts <-chan runtime.Broadcast,
	sinkTimeout time.Duration) *PresenceBroadcaster {
	return &PresenceBroadcaster{log: log, broadcasts: broadcasts, sinkTimeout: sinkTimeout}
}

func (w *PresenceBroadcaster) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping presence broadcasts")
			return nil
		case job := <-w.broadcasts:
			w.Fanout(ctx, job)
		}
	}
}

// Fanout delivers one snapshot to every sink of the job's audience.
func (w *PresenceBroadcaster) Fanout(ctx context.Context, job runtime.Broadcast) {
	for _, sink := range job.Audience {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, job.Snapshot); err != nil {
			w.log.Debug("presence delivery skipped", "error", err)
		}
		cancel()
	}
}
