package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"numledger/internal/domain"
	"numledger/internal/infrastructure/metrics"
	"numledger/internal/usecase"
)

// LedgerRepository implements usecase.Repository on PostgreSQL. Saves are
// full replaces of a project's entry list inside one transaction, matching
// the engine's no-partial-patch contract. An optional cache fronts entry
// loads; it is invalidated on every save before the write and refreshed
// after, so a crashed save cannot leave a stale snapshot behind.
type LedgerRepository struct {
	pool     *pgxpool.Pool
	retrier  *Retrier
	cache    usecase.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewLedgerRepository creates a repository. cache and m may be nil.
func NewLedgerRepository(pool *pgxpool.Pool, cache usecase.Cache, cacheTTL time.Duration, m *metrics.Metrics, logger zerolog.Logger) *LedgerRepository {
	return &LedgerRepository{
		pool:     pool,
		retrier:  NewRetrier(logger),
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   logger,
	}
}

// observe records one repository operation's outcome and duration.
func (r *LedgerRepository) observe(operation string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	r.metrics.RepoOperations.WithLabelValues(operation, outcome).Inc()
	r.metrics.RepoDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

const entryCachePrefix = "entries:"

// LoadEntries returns a project's entries in creation order.
func (r *LedgerRepository) LoadEntries(ctx context.Context, projectID string) (_ []*domain.Entry, err error) {
	defer func(start time.Time) { r.observe("load_entries", start, err) }(time.Now())

	if r.cache != nil {
		if data, err := r.cache.Get(ctx, entryCachePrefix+projectID); err == nil && data != nil {
			var entries []*domain.Entry
			if err := json.Unmarshal(data, &entries); err == nil {
				return entries, nil
			}
		}
	}

	var entries []*domain.Entry

	err = r.retrier.Retry(ctx, func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT id, number, entry_type, first_amount, second_amount, notes, is_filter_deduction, created_at, updated_at
			FROM entries
			WHERE project_id = $1
			ORDER BY position`, projectID)
		if err != nil {
			return err
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			e := &domain.Entry{ProjectID: projectID}

			var number, entryType string
			if err := rows.Scan(&e.ID, &number, &entryType, &e.First, &e.Second, &e.Notes, &e.IsFilterDeduction, &e.CreatedAt, &e.UpdatedAt); err != nil {
				return err
			}

			e.Number = domain.Number(number)
			e.EntryType = domain.EntryKind(entryType)
			entries = append(entries, e)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("load entries for project %s: %w", projectID, err)
	}

	r.fillCache(ctx, projectID, entries)

	return entries, nil
}

// SaveEntries replaces a project's entry list.
func (r *LedgerRepository) SaveEntries(ctx context.Context, projectID string, entries []*domain.Entry) (err error) {
	defer func(start time.Time) { r.observe("save_entries", start, err) }(time.Now())

	if r.cache != nil {
		if err := r.cache.Delete(ctx, entryCachePrefix+projectID); err != nil {
			r.logger.Warn().Err(err).Str("project_id", projectID).Msg("entry cache invalidation failed")
		}
	}

	err = r.retrier.Retry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE project_id = $1`, projectID); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for i, e := range entries {
			batch.Queue(`
				INSERT INTO entries (project_id, position, id, number, entry_type, first_amount, second_amount, notes, is_filter_deduction, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				projectID, i, e.ID, e.Number.String(), string(e.EntryType),
				e.First, e.Second, e.Notes, e.IsFilterDeduction, e.CreatedAt, e.UpdatedAt)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return fmt.Errorf("save entries for project %s: %w", projectID, err)
	}

	r.fillCache(ctx, projectID, entries)

	return nil
}

// LoadBalance returns a user's balance, zero when the user has none yet.
func (r *LedgerRepository) LoadBalance(ctx context.Context, userID string) (_ decimal.Decimal, err error) {
	defer func(start time.Time) { r.observe("load_balance", start, err) }(time.Now())

	balance := decimal.Zero

	err = r.retrier.Retry(ctx, func() error {
		err := r.pool.QueryRow(ctx, `SELECT balance FROM balances WHERE user_id = $1`, userID).Scan(&balance)
		if err == pgx.ErrNoRows {
			balance = decimal.Zero
			return nil
		}

		return err
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("load balance for user %s: %w", userID, err)
	}

	return balance, nil
}

// SaveBalance upserts a user's balance.
func (r *LedgerRepository) SaveBalance(ctx context.Context, userID string, balance decimal.Decimal) (err error) {
	defer func(start time.Time) { r.observe("save_balance", start, err) }(time.Now())

	err = r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO balances (user_id, balance, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (user_id) DO UPDATE SET balance = EXCLUDED.balance, updated_at = now()`,
			userID, balance)

		return err
	})
	if err != nil {
		return fmt.Errorf("save balance for user %s: %w", userID, err)
	}

	return nil
}

func (r *LedgerRepository) fillCache(ctx context.Context, projectID string, entries []*domain.Entry) {
	if r.cache == nil {
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := r.cache.Set(ctx, entryCachePrefix+projectID, data, r.cacheTTL); err != nil {
		r.logger.Warn().Err(err).Str("project_id", projectID).Msg("entry cache fill failed")
	}
}

var _ usecase.Repository = (*LedgerRepository)(nil)
