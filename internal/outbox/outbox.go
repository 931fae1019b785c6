// Package outbox delivers committed activity log entries to a message
// publisher. Entries stay pending (published_at IS NULL) until the publisher
// reports the broker accepted them, so a broker outage delays delivery but
// loses nothing.
package outbox

import (
	"context"
	"log/slog"
	"somthing-shop/internal/model"
	"somthing-shop/internal/repository"
	"time"
)

type Publisher interface {
	Publish(ctx context.Context, entry *model.ActivityLog) error
}

type nopPublisher struct{}

func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, *model.ActivityLog) error { return nil }

type Relay struct {
	activityRepo repository.ActivityLogRepository
	publisher    Publisher
	logger       *slog.Logger
	interval     time.Duration
	batchSize    int
	now          func() time.Time
}

func NewRelay(
	activityRepo repository.ActivityLogRepository,
	publisher Publisher,
	logger *slog.Logger,
	interval time.Duration,
	batchSize int,
) *Relay {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Relay{
		activityRepo: activityRepo,
		publisher:    publisher,
		logger:       logger,
		interval:     interval,
		batchSize:    batchSize,
		now:          time.Now,
	}
}

// Deliver tries to publish a just-committed entry. A failure is logged and
// left for the periodic flush.
func (r *Relay) Deliver(ctx context.Context, entry *model.ActivityLog) {
	if err := r.publisher.Publish(ctx, entry); err != nil {
		r.logger.WarnContext(ctx, "publish activity deferred",
			slog.String("activity_id", entry.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := r.activityRepo.MarkPublished(ctx, []string{entry.ID}, r.now()); err != nil {
		r.logger.ErrorContext(ctx, "mark activity published", slog.String("error", err.Error()))
	}
}

// Flush publishes one batch of pending entries in creation order and
// stops at the first failure so ordering is kept.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	pending, err := r.activityRepo.ListUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	published := make([]string, 0, len(pending))
	var publishErr error
	for _, entry := range pending {
		if publishErr = r.publisher.Publish(ctx, entry); publishErr != nil {
			break
		}
		published = append(published, entry.ID)
	}

	if err := r.activityRepo.MarkPublished(ctx, published, r.now()); err != nil {
		return 0, err
	}

	return len(published), publishErr
}

func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.Flush(ctx)
			if err != nil {
				r.logger.WarnContext(ctx, "outbox flush", slog.Int("published", n), slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				r.logger.DebugContext(ctx, "outbox flush", slog.Int("published", n))
			}
		}
	}
}
