package usecase

import (
	"context"
	"time"

	"numledger/internal/domain"
)

// Operation is one side of a reversible command. It performs the paired
// entry-store and balance mutations itself, so running it is all the engine
// needs to do to move state forward or backward.
type Operation func(ctx context.Context) error

type command struct {
	record  *domain.ActionRecord
	forward Operation
	inverse Operation
}

// History is a project's linear undo/redo log: an ordered command list plus
// a cursor pointing at the last applied command (-1 before the first).
type History struct {
	idGen    IDGenerator
	commands []*command
	cursor   int
}

// NewHistory creates an empty history.
func NewHistory(idGen IDGenerator) *History {
	return &History{
		idGen:  idGen,
		cursor: -1,
	}
}

// Record executes forward and, if it succeeds, commits the command: the redo
// tail past the cursor is discarded, the command is appended, and the cursor
// advances. A failed forward leaves the history untouched.
func (h *History) Record(ctx context.Context, kind domain.ActionKind, affected []domain.Number, forward, inverse Operation) (*domain.ActionRecord, error) {
	if err := forward(ctx); err != nil {
		return nil, err
	}

	record := &domain.ActionRecord{
		ID:              h.idGen.Generate(),
		Kind:            kind,
		Timestamp:       time.Now().UTC(),
		AffectedNumbers: affected,
	}

	h.commands = append(h.commands[:h.cursor+1], &command{
		record:  record,
		forward: forward,
		inverse: inverse,
	})
	h.cursor++

	return record, nil
}

// Undo reverses the command at the cursor and steps back. Returns nil with
// no error when there is nothing to undo. A failed inverse leaves the cursor
// where it was.
func (h *History) Undo(ctx context.Context) (*domain.ActionRecord, error) {
	if h.cursor < 0 {
		return nil, nil
	}

	cmd := h.commands[h.cursor]
	if err := cmd.inverse(ctx); err != nil {
		return nil, err
	}

	h.cursor--

	return cmd.record, nil
}

// Redo re-applies the command after the cursor. Returns nil with no error
// when the cursor is already at the end.
func (h *History) Redo(ctx context.Context) (*domain.ActionRecord, error) {
	if h.cursor >= len(h.commands)-1 {
		return nil, nil
	}

	cmd := h.commands[h.cursor+1]
	if err := cmd.forward(ctx); err != nil {
		return nil, err
	}

	h.cursor++

	return cmd.record, nil
}

// CanUndo reports whether a command is available to undo.
func (h *History) CanUndo() bool {
	return h.cursor >= 0
}

// CanRedo reports whether an undone command is available to redo.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.commands)-1
}

// Records lists every recorded action up to and including the cursor, oldest
// first. Undone actions past the cursor are not listed; they are only
// reachable through Redo.
func (h *History) Records() []*domain.ActionRecord {
	out := make([]*domain.ActionRecord, 0, h.cursor+1)
	for i := 0; i <= h.cursor; i++ {
		out = append(out, h.commands[i].record)
	}

	return out
}
