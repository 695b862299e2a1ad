package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/backend-optima/internal/obs"
)

// Outcome is the terminal state of one bulk request.
type Outcome string

const (
	OutcomePreviewed Outcome = "previewed"
	OutcomeCommitted Outcome = "committed"
	OutcomeRejected  Outcome = "rejected"
	OutcomeEmpty     Outcome = "empty_scope"
	OutcomeConflict  Outcome = "conflict"
	OutcomeFailed    Outcome = "failed"
)

// OutcomeOf classifies err into the Outcome reported for a failed request.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, ErrInvalidAdjustment), errors.Is(err, ErrInvalidScope):
		return OutcomeRejected
	case errors.Is(err, ErrEmptyScope):
		return OutcomeEmpty
	case errors.Is(err, ErrPriceConflict):
		return OutcomeConflict
	default:
		return OutcomeFailed
	}
}

// CatalogInvalidator drops cached catalog views after prices change.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context, reason string) error
}

// Request is a bulk adjustment as received from the caller.
type Request struct {
	CategoryID string
	ProductIDs []string
	Mode       string
	Value      decimal.Decimal
	Direction  string
	RoundTo    *int64
	Preview    bool
	Note       string
}

// Result is returned for both preview and commit.
type Result struct {
	Preview bool
	Plan    Plan
	Commit  *CommitResult
}

// Service validates requests, plans them and commits when asked.
type Service struct {
	planner        *Planner
	committer      *Committer
	invalidator    CatalogInvalidator
	logger         zerolog.Logger
	defaultRoundTo int64
	maxRoundTo     int64
}

// ServiceConfig groups Service dependencies. DefaultRoundTo and MaxRoundTo come
// from configuration.
type ServiceConfig struct {
	Planner        *Planner
	Committer      *Committer
	Invalidator    CatalogInvalidator
	Logger         zerolog.Logger
	DefaultRoundTo int64
	MaxRoundTo     int64
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Planner == nil {
		return nil, errors.New("pricing: planner is required")
	}
	if cfg.Committer == nil {
		return nil, errors.New("pricing: committer is required")
	}
	defaultRoundTo := cfg.DefaultRoundTo
	if defaultRoundTo <= 0 {
		defaultRoundTo = 100
	}
	maxRoundTo := cfg.MaxRoundTo
	if maxRoundTo <= 0 {
		maxRoundTo = 100000
	}
	if defaultRoundTo > maxRoundTo {
		defaultRoundTo = maxRoundTo
	}
	return &Service{
		planner:        cfg.Planner,
		committer:      cfg.Committer,
		invalidator:    cfg.Invalidator,
		logger:         cfg.Logger,
		defaultRoundTo: defaultRoundTo,
		maxRoundTo:     maxRoundTo,
	}, nil
}

// BuildAdjustment applies the configured rounding default and bounds to req.
func (s *Service) BuildAdjustment(req Request) (Adjustment, error) {
	mode, err := ParseMode(req.Mode)
	if err != nil {
		return Adjustment{}, err
	}
	direction, err := ParseDirection(req.Direction)
	if err != nil {
		return Adjustment{}, err
	}
	roundTo := s.defaultRoundTo
	if req.RoundTo != nil {
		roundTo = *req.RoundTo
	}
	if roundTo > s.maxRoundTo {
		return Adjustment{}, errRoundToTooLarge(s.maxRoundTo)
	}
	return NewAdjustment(mode, req.Value, direction, roundTo)
}

// Adjust plans req and, unless it is a preview, commits the plan.
func (s *Service) Adjust(ctx context.Context, req Request, actor Actor) (Result, error) {
	ctx, span := otel.Tracer("pricing").Start(ctx, "pricing.Adjust")
	defer span.End()
	span.SetAttributes(attribute.Bool("pricing.preview", req.Preview))

	result, err := s.adjust(ctx, req, actor)
	outcome := OutcomeOf(err)
	if err == nil && req.Preview {
		outcome = OutcomePreviewed
	}
	obs.ObservePricingOutcome(string(outcome))
	span.SetAttributes(attribute.String("pricing.outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		if outcome == OutcomeFailed {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	return result, err
}

func (s *Service) adjust(ctx context.Context, req Request, actor Actor) (Result, error) {
	adj, err := s.BuildAdjustment(req)
	if err != nil {
		return Result{}, err
	}
	plan, err := s.planner.Plan(ctx, Scope{CategoryID: req.CategoryID, ProductIDs: req.ProductIDs}, adj)
	if err != nil {
		return Result{}, err
	}
	if req.Preview {
		return Result{Preview: true, Plan: plan}, nil
	}

	start := time.Now()
	commit, err := s.committer.Commit(ctx, plan, actor, req.Note)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("actor", actor.label()).
			Int("products", len(plan.Changes)).
			Msg("bulk price commit failed")
		return Result{Plan: plan}, err
	}
	if obs.PricingCommitLatency != nil {
		obs.PricingCommitLatency.Observe(obs.DurationMillis(time.Since(start)))
	}
	if obs.PricingProductsRepriced != nil {
		obs.PricingProductsRepriced.Add(float64(commit.UpdatedCount))
	}
	s.logger.Info().
		Str("actor", actor.label()).
		Str("batch_id", commit.BatchID).
		Int("updated", commit.UpdatedCount).
		Str("reason", adj.Reason()).
		Msg("bulk price commit applied")

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateCatalog(ctx, "bulk-price"); err != nil {
			s.logger.Warn().Err(err).Str("batch_id", commit.BatchID).Msg("catalog cache invalidation failed")
		}
	}
	return Result{Plan: plan, Commit: &commit}, nil
}
