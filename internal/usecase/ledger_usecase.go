package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"numledger/internal/domain"
)

// LedgerUseCase is the consistency engine for one project operated by one
// user: it owns the entry store, the user's balance ledger, and the linear
// undo/redo history, and sequences every mutation so the entry list and the
// balance move in lockstep.
//
// A mutex serializes commands; while one executes, no other mutation may
// interleave against the same project or balance.
type LedgerUseCase struct {
	mu        sync.Mutex
	projectID string
	store     *EntryStore
	balance   *BalanceLedger
	history   *History
	idGen     IDGenerator
	logger    zerolog.Logger
}

// NewLedgerUseCase creates an engine for a project/user pair and loads both
// the entry list and the balance from the repository.
func NewLedgerUseCase(ctx context.Context, repo Repository, idGen IDGenerator, projectID, userID string, privileged bool, logger zerolog.Logger) (*LedgerUseCase, error) {
	uc := &LedgerUseCase{
		projectID: projectID,
		store:     NewEntryStore(projectID, repo),
		balance:   NewBalanceLedger(repo, userID, privileged),
		history:   NewHistory(idGen),
		idGen:     idGen,
		logger:    logger.With().Str("project_id", projectID).Str("user_id", userID).Logger(),
	}

	if err := uc.store.Load(ctx); err != nil {
		return nil, err
	}

	if err := uc.balance.Load(ctx); err != nil {
		return nil, err
	}

	return uc, nil
}

// AddEntryInput represents input for recording one entry.
type AddEntryInput struct {
	Number    string
	EntryType domain.EntryKind
	First     decimal.Decimal
	Second    decimal.Decimal
	Notes     string
}

// AddEntry records a single entry: the balance is debited (or credited, for
// a negative net) before the entry is written, and a failed write credits
// the balance back before the error surfaces.
func (uc *LedgerUseCase) AddEntry(ctx context.Context, input AddEntryInput) (*domain.Entry, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, err := uc.buildEntry(input, false)
	if err != nil {
		return nil, err
	}

	_, err = uc.history.Record(ctx, domain.ActionAdd, []domain.Number{entry.Number},
		uc.forwardAdd([]*domain.Entry{entry}),
		uc.inverseAdd([]*domain.Entry{entry}),
	)
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Str("entry_id", entry.ID).Str("number", entry.Number.String()).Msg("entry added")

	return entry, nil
}

// AddEntries records a batch of entries as one action. Sufficiency is
// checked on the batch's combined net up front; an insufficient balance
// aborts the whole submission with nothing applied.
func (uc *LedgerUseCase) AddEntries(ctx context.Context, inputs []AddEntryInput) ([]*domain.Entry, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if len(inputs) == 0 {
		return nil, nil
	}

	entries := make([]*domain.Entry, 0, len(inputs))
	numbers := make([]domain.Number, 0, len(inputs))

	for _, input := range inputs {
		entry, err := uc.buildEntry(input, false)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
		numbers = append(numbers, entry.Number)
	}

	_, err := uc.history.Record(ctx, domain.ActionAdd, numbers,
		uc.forwardAdd(entries),
		uc.inverseAdd(entries),
	)
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Int("count", len(entries)).Msg("bulk entries added")

	return entries, nil
}

// AddBulkText parses line-oriented text and commits every line as one
// all-or-nothing batch. Any unparseable line aborts the commit with a
// *domain.ParseError listing the failed lines.
func (uc *LedgerUseCase) AddBulkText(ctx context.Context, kind domain.EntryKind, text string) ([]*domain.Entry, error) {
	valid, invalid := domain.ParseBulkText(text, kind)
	if len(invalid) > 0 {
		return nil, &domain.ParseError{Lines: invalid}
	}

	inputs := make([]AddEntryInput, 0, len(valid))
	for _, line := range valid {
		inputs = append(inputs, AddEntryInput{
			Number:    line.Number.String(),
			EntryType: kind,
			First:     line.First,
			Second:    line.Second,
		})
	}

	return uc.AddEntries(ctx, inputs)
}

// EditEntryInput patches an entry. Nil fields keep their current value;
// number and entry type are immutable.
type EditEntryInput struct {
	First  *decimal.Decimal
	Second *decimal.Decimal
	Notes  *string
}

// EditEntry applies a patch. Only the delta between the old and new net
// amount touches the balance.
func (uc *LedgerUseCase) EditEntry(ctx context.Context, id string, patch EditEntryInput) (*domain.Entry, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	old, ok := uc.store.Get(id)
	if !ok {
		return nil, domain.ErrEntryNotFound
	}

	updated := old.Clone()
	if patch.First != nil {
		updated.First = *patch.First
	}
	if patch.Second != nil {
		updated.Second = *patch.Second
	}
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	delta := updated.Net().Sub(old.Net())

	forward := func(ctx context.Context) error {
		if err := uc.balance.Apply(ctx, delta); err != nil {
			return err
		}

		if _, err := uc.store.Replace(ctx, updated); err != nil {
			return uc.compensateBalance(ctx, delta, err)
		}

		return nil
	}

	inverse := func(ctx context.Context) error {
		if err := uc.balance.Unapply(ctx, delta); err != nil {
			return err
		}

		if _, err := uc.store.Replace(ctx, old); err != nil {
			return uc.compensateBalance(ctx, delta.Neg(), err)
		}

		return nil
	}

	_, err := uc.history.Record(ctx, domain.ActionEdit, []domain.Number{old.Number}, forward, inverse)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEntry removes an entry and refunds the exact balance effect its
// creation had, computed from the entry's own amounts.
func (uc *LedgerUseCase) DeleteEntry(ctx context.Context, id string) (*domain.Entry, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.store.Get(id)
	if !ok {
		return nil, domain.ErrEntryNotFound
	}

	net := entry.Net()

	// Shared between forward and inverse so a redo removes from, and an
	// undo restores to, the same position.
	var index int

	forward := func(ctx context.Context) error {
		removed, idx, err := uc.store.Remove(ctx, id)
		if err != nil {
			return err
		}
		index = idx

		if err := uc.balance.Unapply(ctx, net); err != nil {
			// Refund failed after removal: restore the entry rather than
			// inherit the one-sided state.
			if restoreErr := uc.store.InsertAt(ctx, removed, idx); restoreErr != nil {
				uc.logger.Error().Err(err).AnErr("restore_error", restoreErr).
					Str("entry_id", id).Msg("balance refund and entry restore both failed")

				return fmt.Errorf("%w: refund failed and entry %s could not be restored: %v", domain.ErrBalanceSync, id, err)
			}

			return err
		}

		return nil
	}

	inverse := func(ctx context.Context) error {
		if err := uc.balance.Apply(ctx, net); err != nil {
			return err
		}

		if err := uc.store.InsertAt(ctx, entry, index); err != nil {
			return uc.compensateBalance(ctx, net, err)
		}

		return nil
	}

	_, err := uc.history.Record(ctx, domain.ActionDelete, []domain.Number{entry.Number}, forward, inverse)
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Str("entry_id", id).Msg("entry deleted")

	return entry, nil
}

// BatchDeleteResult reports a best-effort batch removal: IDs that were not
// found are listed, the rest were removed and refunded.
type BatchDeleteResult struct {
	Deleted  []*domain.Entry
	NotFound []string
}

// DeleteEntries removes every entry whose ID exists, refunding their
// combined net in one balance mutation. Missing IDs do not fail the batch.
// Undo restores every removed entry; redo removes them all again.
func (uc *LedgerUseCase) DeleteEntries(ctx context.Context, ids []string) (*BatchDeleteResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var (
		found    []*domain.Entry
		foundIDs []string
		notFound []string
		numbers  []domain.Number
	)

	for _, id := range ids {
		entry, ok := uc.store.Get(id)
		if !ok {
			notFound = append(notFound, id)
			continue
		}

		found = append(found, entry)
		foundIDs = append(foundIDs, id)
		numbers = append(numbers, entry.Number)
	}

	if len(found) == 0 {
		return &BatchDeleteResult{NotFound: notFound}, nil
	}

	totalNet := decimal.Zero
	for _, e := range found {
		totalNet = totalNet.Add(e.Net())
	}

	var (
		removed []*domain.Entry
		indexes []int
	)

	forward := func(ctx context.Context) error {
		r, idxs, _, err := uc.store.RemoveMany(ctx, foundIDs)
		if err != nil {
			return err
		}
		removed, indexes = r, idxs

		if err := uc.balance.Unapply(ctx, totalNet); err != nil {
			if restoreErr := uc.store.InsertAllAt(ctx, removed, indexes); restoreErr != nil {
				uc.logger.Error().Err(err).AnErr("restore_error", restoreErr).
					Msg("batch refund and entry restore both failed")

				return fmt.Errorf("%w: batch refund failed and entries could not be restored: %v", domain.ErrBalanceSync, err)
			}

			return err
		}

		return nil
	}

	inverse := func(ctx context.Context) error {
		if err := uc.balance.Apply(ctx, totalNet); err != nil {
			return err
		}

		if err := uc.store.InsertAllAt(ctx, removed, indexes); err != nil {
			return uc.compensateBalance(ctx, totalNet, err)
		}

		return nil
	}

	_, err := uc.history.Record(ctx, domain.ActionBatchDelete, numbers, forward, inverse)
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Int("deleted", len(found)).Int("not_found", len(notFound)).Msg("batch delete")

	return &BatchDeleteResult{Deleted: found, NotFound: notFound}, nil
}

// EvaluateFilter derives deduction amounts from the current aggregates
// without committing anything. Results are sorted by number ascending.
func (uc *LedgerUseCase) EvaluateFilter(kind domain.EntryKind, first, second *domain.FilterCriterion) ([]domain.DeductionResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.evaluateLocked(kind, first, second)
}

// ApplyDeductions evaluates the criteria against freshly summarized totals
// and commits one deduction entry per non-zero result, all as a single
// undoable action. The negative net credits the balance. Repeated passes
// compound: each pass sees totals already reduced by prior deductions.
func (uc *LedgerUseCase) ApplyDeductions(ctx context.Context, kind domain.EntryKind, first, second *domain.FilterCriterion) ([]*domain.Entry, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	results, err := uc.evaluateLocked(kind, first, second)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()

	entries := make([]*domain.Entry, 0, len(results))
	ids := make([]string, 0, len(results))
	numbers := make([]domain.Number, 0, len(results))
	totalNet := decimal.Zero

	for _, r := range results {
		entry := &domain.Entry{
			ID:                uc.idGen.Generate(),
			ProjectID:         uc.projectID,
			Number:            r.Number,
			EntryType:         kind,
			First:             r.FirstAdjustment.Neg(),
			Second:            r.SecondAdjustment.Neg(),
			IsFilterDeduction: true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		entries = append(entries, entry)
		ids = append(ids, entry.ID)
		numbers = append(numbers, entry.Number)
		totalNet = totalNet.Add(entry.Net())
	}

	forward := func(ctx context.Context) error {
		if err := uc.balance.Apply(ctx, totalNet); err != nil {
			return err
		}

		if err := uc.store.InsertAll(ctx, entries); err != nil {
			return uc.compensateBalance(ctx, totalNet, err)
		}

		return nil
	}

	inverse := func(ctx context.Context) error {
		removed, indexes, _, err := uc.store.RemoveMany(ctx, ids)
		if err != nil {
			return err
		}

		if err := uc.balance.Unapply(ctx, totalNet); err != nil {
			if restoreErr := uc.store.InsertAllAt(ctx, removed, indexes); restoreErr != nil {
				uc.logger.Error().Err(err).AnErr("restore_error", restoreErr).
					Msg("deduction reversal failed on both sides")

				return fmt.Errorf("%w: deduction reversal failed: %v", domain.ErrBalanceSync, err)
			}

			return err
		}

		return nil
	}

	_, err = uc.history.Record(ctx, domain.ActionFilterDeduction, numbers, forward, inverse)
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Int("deductions", len(entries)).Str("total", totalNet.Neg().String()).Msg("filter deductions applied")

	return entries, nil
}

// Undo reverses the most recent action. Returns nil when there is nothing
// to undo.
func (uc *LedgerUseCase) Undo(ctx context.Context) (*domain.ActionRecord, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.history.Undo(ctx)
}

// Redo re-applies the most recently undone action. Returns nil when there
// is nothing to redo.
func (uc *LedgerUseCase) Redo(ctx context.Context) (*domain.ActionRecord, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.history.Redo(ctx)
}

// CanUndo reports whether an action is available to undo.
func (uc *LedgerUseCase) CanUndo() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.history.CanUndo()
}

// CanRedo reports whether an undone action is available to redo.
func (uc *LedgerUseCase) CanRedo() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.history.CanRedo()
}

// History lists the applied actions, oldest first.
func (uc *LedgerUseCase) History() []*domain.ActionRecord {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.history.Records()
}

// Entries returns the project's entries in creation order.
func (uc *LedgerUseCase) Entries() []*domain.Entry {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.store.List()
}

// Entry returns one entry by ID.
func (uc *LedgerUseCase) Entry(id string) (*domain.Entry, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.store.Get(id)
	if !ok {
		return nil, domain.ErrEntryNotFound
	}

	return entry, nil
}

// Summaries aggregates the current entries of a kind into per-number
// summaries, sorted by number ascending.
func (uc *LedgerUseCase) Summaries(kind domain.EntryKind) []*domain.NumberSummary {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return domain.SortedSummaries(domain.Summarize(uc.store.List(), kind))
}

// Extremes returns the numbers with the greatest and smallest positive
// combined totals.
func (uc *LedgerUseCase) Extremes(kind domain.EntryKind) domain.Extremes {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return domain.FindExtremes(domain.Summarize(uc.store.List(), kind))
}

// Totals returns the project-wide first and second totals for a kind.
func (uc *LedgerUseCase) Totals(kind domain.EntryKind) (first, second decimal.Decimal) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return domain.GrandTotals(domain.Summarize(uc.store.List(), kind))
}

// Balance returns the user's current spendable balance.
func (uc *LedgerUseCase) Balance() decimal.Decimal {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.balance.Balance()
}

// Privileged reports whether the operating user skips balance accounting.
func (uc *LedgerUseCase) Privileged() bool {
	return uc.balance.Privileged()
}

func (uc *LedgerUseCase) evaluateLocked(kind domain.EntryKind, first, second *domain.FilterCriterion) ([]domain.DeductionResult, error) {
	for _, c := range []*domain.FilterCriterion{first, second} {
		if c == nil {
			continue
		}

		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	summaries := domain.Summarize(uc.store.List(), kind)

	return domain.EvaluateFilter(summaries, first, second), nil
}

func (uc *LedgerUseCase) buildEntry(input AddEntryInput, isDeduction bool) (*domain.Entry, error) {
	number, err := domain.ParseNumber(input.Number, input.EntryType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	entry := &domain.Entry{
		ID:                uc.idGen.Generate(),
		ProjectID:         uc.projectID,
		Number:            number,
		EntryType:         input.EntryType,
		First:             input.First,
		Second:            input.Second,
		Notes:             input.Notes,
		IsFilterDeduction: isDeduction,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// forwardAdd debits (or credits) the combined net first, then writes the
// batch; a failed write is compensated by the opposite balance mutation.
func (uc *LedgerUseCase) forwardAdd(entries []*domain.Entry) Operation {
	totalNet := decimal.Zero
	for _, e := range entries {
		totalNet = totalNet.Add(e.Net())
	}

	return func(ctx context.Context) error {
		if err := uc.balance.Apply(ctx, totalNet); err != nil {
			return err
		}

		if err := uc.store.InsertAll(ctx, entries); err != nil {
			return uc.compensateBalance(ctx, totalNet, err)
		}

		return nil
	}
}

// inverseAdd removes the batch, then refunds the combined net.
func (uc *LedgerUseCase) inverseAdd(entries []*domain.Entry) Operation {
	ids := make([]string, 0, len(entries))
	totalNet := decimal.Zero
	for _, e := range entries {
		ids = append(ids, e.ID)
		totalNet = totalNet.Add(e.Net())
	}

	return func(ctx context.Context) error {
		removed, indexes, _, err := uc.store.RemoveMany(ctx, ids)
		if err != nil {
			return err
		}

		if err := uc.balance.Unapply(ctx, totalNet); err != nil {
			if restoreErr := uc.store.InsertAllAt(ctx, removed, indexes); restoreErr != nil {
				uc.logger.Error().Err(err).AnErr("restore_error", restoreErr).
					Msg("undo refund and entry restore both failed")

				return fmt.Errorf("%w: undo refund failed: %v", domain.ErrBalanceSync, err)
			}

			return err
		}

		return nil
	}
}

// compensateBalance reverses a balance mutation after the paired store
// write failed. If the compensation itself fails the two ledgers have
// drifted, which is surfaced loudly as ErrBalanceSync.
func (uc *LedgerUseCase) compensateBalance(ctx context.Context, appliedNet decimal.Decimal, cause error) error {
	if compErr := uc.balance.Unapply(ctx, appliedNet); compErr != nil {
		uc.logger.Error().Err(cause).AnErr("compensation_error", compErr).
			Msg("entry write failed and balance compensation failed")

		return fmt.Errorf("%w: %v (compensation failed: %v)", domain.ErrBalanceSync, cause, compErr)
	}

	return cause
}
