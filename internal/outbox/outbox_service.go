package outbox

import (
	"context"

	"go.uber.org/zap"
)

// Recorder writes domain events to the outbox. Writing is best effort: the
// state change has already happened, so a failure is logged and swallowed.
type Recorder struct {
	repo   Repository
	logger *zap.Logger
}

func NewRecorder(repo Repository, logger *zap.Logger) *Recorder {
	if repo == nil {
		repo = Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger.Named("outbox")}
}

func (r *Recorder) Record(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) {
	e, err := NewEvent(aggregateType, aggregateID, eventType, payload)
	if err != nil {
		r.logger.Error("build outbox event", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	if err := r.repo.Create(ctx, e); err != nil {
		r.logger.Warn("write outbox event",
			zap.String("event_type", eventType),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err),
		)
	}
}
