package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-optima/internal/lock"
)

// TypeCatalogPurge drops every cached catalog view.
const TypeCatalogPurge = "catalog:purge"

const (
	// QueueDefault is the queue catalog tasks are routed to.
	QueueDefault = "default"

	purgeLockKey = "catalog-purge"
	purgeLockTTL = 30 * time.Second
)

// PurgePayload describes why a purge was requested.
type PurgePayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}

// NewCatalogPurgeTask builds the asynq task for a purge.
func NewCatalogPurgeTask(reason string, at time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(PurgePayload{Reason: reason, RequestedAt: at.UTC()})
	if err != nil {
		return nil, fmt.Errorf("marshal purge payload: %w", err)
	}
	return asynq.NewTask(TypeCatalogPurge, payload, asynq.MaxRetry(5), asynq.Timeout(time.Minute)), nil
}

// Purger clears cached catalog data and reports how many keys went away.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

// Enqueuer is the subset of *asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Invalidator schedules a catalog purge on the task queue. Without a client, or
// when enqueueing fails, it purges inline so readers never keep stale prices.
type Invalidator struct {
	Client Enqueuer
	Purger Purger
	Queue  string
	Unique time.Duration
	Logger zerolog.Logger
	Now    func() time.Time
}

// InvalidateCatalog satisfies the catalog and pricing invalidation hooks.
func (i Invalidator) InvalidateCatalog(ctx context.Context, reason string) error {
	if i.Client != nil {
		err := i.enqueue(ctx, reason)
		if err == nil {
			return nil
		}
		i.Logger.Warn().Err(err).Str("reason", reason).Msg("enqueue catalog purge failed, purging inline")
	}
	if i.Purger == nil {
		return errors.New("tasks: no purger configured")
	}
	removed, err := i.Purger.Purge(ctx)
	if err != nil {
		return fmt.Errorf("purge catalog cache: %w", err)
	}
	i.Logger.Debug().Int("removed", removed).Str("reason", reason).Msg("catalog cache purged inline")
	return nil
}

func (i Invalidator) enqueue(ctx context.Context, reason string) error {
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	task, err := NewCatalogPurgeTask(reason, now())
	if err != nil {
		return err
	}
	queue := i.Queue
	if queue == "" {
		queue = QueueDefault
	}
	opts := []asynq.Option{asynq.Queue(queue)}
	if i.Unique > 0 {
		opts = append(opts, asynq.Unique(i.Unique))
	}
	info, err := i.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return err
	}
	i.Logger.Debug().Str("task_id", info.ID).Str("reason", reason).Msg("catalog purge enqueued")
	return nil
}

// PurgeHandler processes catalog:purge tasks in the worker.
type PurgeHandler struct {
	Purger Purger
	Locker *lock.Locker
	Logger zerolog.Logger
}

// ProcessTask implements asynq.Handler.
func (h PurgeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload PurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode purge payload: %v: %w", err, asynq.SkipRetry)
	}
	if h.Purger == nil {
		return errors.New("tasks: no purger configured")
	}

	run := func(ctx context.Context) error {
		removed, err := h.Purger.Purge(ctx)
		if err != nil {
			return fmt.Errorf("purge catalog cache: %w", err)
		}
		h.Logger.Info().
			Int("removed", removed).
			Str("reason", payload.Reason).
			Dur("queued_for", time.Since(payload.RequestedAt)).
			Msg("catalog cache purged")
		return nil
	}
	if h.Locker == nil {
		return run(ctx)
	}
	err := h.Locker.TryWithLock(ctx, purgeLockKey, purgeLockTTL, run)
	if errors.Is(err, lock.ErrNotAcquired) {
		// retried by asynq: the running purge may have scanned past keys written since
		return fmt.Errorf("catalog purge in progress: %w", err)
	}
	return err
}

// NewServeMux routes worker tasks to their handlers.
func NewServeMux(purge PurgeHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeCatalogPurge, purge)
	return mux
}
