package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-optima/internal/db"
	dbgen "github.com/noah-isme/backend-optima/internal/db/gen"
)

// TxQueries is the query surface the committer needs inside a transaction.
type TxQueries interface {
	GetProductPriceForUpdate(ctx context.Context, id pgtype.UUID) (int64, error)
	UpdateProductPrice(ctx context.Context, arg dbgen.UpdateProductPriceParams) (int64, error)
	InsertPriceLog(ctx context.Context, arg dbgen.InsertPriceLogParams) (dbgen.PriceLog, error)
}

// Store runs fn atomically; an error from fn must leave no writes behind.
type Store interface {
	InTx(ctx context.Context, fn func(q TxQueries) error) error
}

// PgStore adapts a db.Transactor to Store.
type PgStore struct {
	Tx db.Transactor
}

// InTx implements Store.
func (s PgStore) InTx(ctx context.Context, fn func(q TxQueries) error) error {
	return s.Tx.InTx(ctx, func(q *dbgen.Queries) error { return fn(q) })
}

// Actor identifies who requested the change.
type Actor struct {
	ID string
}

func (a Actor) label() string {
	if id := strings.TrimSpace(a.ID); id != "" {
		return id
	}
	return "admin"
}

// CommitResult summarises a successful commit.
type CommitResult struct {
	UpdatedCount int    `json:"updatedCount"`
	BatchID      string `json:"batchId"`
}

// Committer writes a plan's price updates and audit rows as one atomic unit.
type Committer struct {
	store Store
	newID func() uuid.UUID
}

// NewCommitter constructs a Committer on top of store.
func NewCommitter(store Store) (*Committer, error) {
	if store == nil {
		return nil, errors.New("pricing: store is required")
	}
	return &Committer{store: store, newID: uuid.New}, nil
}

// Commit applies every change in plan or none of them. Every product row is locked
// up front in ascending id order, so concurrent batches over overlapping products
// queue behind each other instead of deadlocking. If a locked price no longer equals
// the planned price-before the whole batch aborts with ErrPriceConflict.
func (c *Committer) Commit(ctx context.Context, plan Plan, actor Actor, note string) (CommitResult, error) {
	if len(plan.Changes) == 0 {
		return CommitResult{}, ErrEmptyScope
	}
	adjustment, err := json.Marshal(plan.Adjustment)
	if err != nil {
		return CommitResult{}, fmt.Errorf("%w: encode adjustment: %w", ErrCommitFailed, err)
	}
	batchID := c.newID()
	base := dbgen.InsertPriceLogParams{
		ChangedBy:  actor.label(),
		Reason:     db.Text(plan.Adjustment.Reason()),
		Adjustment: adjustment,
		Note:       db.Text(strings.TrimSpace(note)),
		BatchID:    pgtype.UUID{Bytes: batchID, Valid: true},
	}

	err = c.store.InTx(ctx, func(q TxQueries) error {
		locked, err := lockRows(ctx, q, plan.Changes)
		if err != nil {
			return err
		}
		for _, change := range plan.Changes {
			id, _ := db.ParseUUID(change.ProductID)
			if err := applyChange(ctx, q, change, lockedRow{id: id, price: locked[id]}, base); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCommitFailed) {
			return CommitResult{}, err
		}
		return CommitResult{}, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	return CommitResult{UpdatedCount: len(plan.Changes), BatchID: batchID.String()}, nil
}

type lockedRow struct {
	id    pgtype.UUID
	price int64
}

// lockRows takes the row lock for every change in ascending id order and checks
// each locked price against the plan.
func lockRows(ctx context.Context, q TxQueries, changes []PriceChange) (map[pgtype.UUID]int64, error) {
	ordered := make([]pgtype.UUID, 0, len(changes))
	planned := make(map[pgtype.UUID]PriceChange, len(changes))
	for _, change := range changes {
		id, err := db.ParseUUID(change.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: product id %q: %w", ErrCommitFailed, change.ProductID, err)
		}
		if _, dup := planned[id]; dup {
			continue
		}
		planned[id] = change
		ordered = append(ordered, id)
	}
	slices.SortFunc(ordered, func(a, b pgtype.UUID) int {
		return bytes.Compare(a.Bytes[:], b.Bytes[:])
	})

	locked := make(map[pgtype.UUID]int64, len(ordered))
	for _, id := range ordered {
		change := planned[id]
		current, err := q.GetProductPriceForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: product %s no longer exists", ErrPriceConflict, change.ProductID)
			}
			return nil, fmt.Errorf("lock product %s: %w", change.ProductID, err)
		}
		if current != change.PriceBefore {
			return nil, fmt.Errorf("%w: product %s is %d, planned from %d", ErrPriceConflict, change.ProductID, current, change.PriceBefore)
		}
		locked[id] = current
	}
	return locked, nil
}

func applyChange(ctx context.Context, q TxQueries, change PriceChange, row lockedRow, base dbgen.InsertPriceLogParams) error {
	if change.PriceAfter < 0 {
		return fmt.Errorf("%w: negative price for product %s", ErrCommitFailed, change.ProductID)
	}
	affected, err := q.UpdateProductPrice(ctx, dbgen.UpdateProductPriceParams{ID: row.id, Price: change.PriceAfter})
	if err != nil {
		return fmt.Errorf("update product %s: %w", change.ProductID, err)
	}
	if affected != 1 {
		return fmt.Errorf("%w: product %s no longer exists", ErrPriceConflict, change.ProductID)
	}
	entry := base
	entry.ProductID = row.id
	entry.OldPrice = row.price
	entry.NewPrice = change.PriceAfter
	if _, err := q.InsertPriceLog(ctx, entry); err != nil {
		return fmt.Errorf("insert price log for %s: %w", change.ProductID, err)
	}
	return nil
}
