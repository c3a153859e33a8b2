package usecase_test

import (
	"context"
	"errors"
	"testing"

	"numledger/internal/domain"
	"numledger/internal/usecase"
	"numledger/internal/usecase/mocks"
)

// counterOps builds a forward/inverse pair that moves a shared counter by
// delta, so cursor movement is observable through the counter value.
func counterOps(counter *int, delta int) (usecase.Operation, usecase.Operation) {
	forward := func(ctx context.Context) error {
		*counter += delta
		return nil
	}
	inverse := func(ctx context.Context) error {
		*counter -= delta
		return nil
	}

	return forward, inverse
}

func TestHistory_UndoRedoRoundTrip(t *testing.T) {
	h := usecase.NewHistory(mocks.NewSequenceIDGenerator())
	ctx := context.Background()

	var counter int
	for _, delta := range []int{1, 10, 100} {
		forward, inverse := counterOps(&counter, delta)
		if _, err := h.Record(ctx, domain.ActionAdd, nil, forward, inverse); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	if counter != 111 {
		t.Fatalf("counter = %d, want 111", counter)
	}

	// Undo everything, then redo everything; the counter must retrace its
	// exact path.
	for _, want := range []int{11, 1, 0} {
		if _, err := h.Undo(ctx); err != nil {
			t.Fatalf("undo: %v", err)
		}
		if counter != want {
			t.Fatalf("counter after undo = %d, want %d", counter, want)
		}
	}

	if h.CanUndo() {
		t.Error("CanUndo() = true at the bottom of history")
	}

	for _, want := range []int{1, 11, 111} {
		if _, err := h.Redo(ctx); err != nil {
			t.Fatalf("redo: %v", err)
		}
		if counter != want {
			t.Fatalf("counter after redo = %d, want %d", counter, want)
		}
	}

	if h.CanRedo() {
		t.Error("CanRedo() = true at the top of history")
	}
}

func TestHistory_NewActionTruncatesRedoTail(t *testing.T) {
	h := usecase.NewHistory(mocks.NewSequenceIDGenerator())
	ctx := context.Background()

	var counter int
	for _, delta := range []int{1, 10} {
		forward, inverse := counterOps(&counter, delta)
		if _, err := h.Record(ctx, domain.ActionAdd, nil, forward, inverse); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	if _, err := h.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !h.CanRedo() {
		t.Fatal("expected a redoable action after undo")
	}

	forward, inverse := counterOps(&counter, 100)
	if _, err := h.Record(ctx, domain.ActionAdd, nil, forward, inverse); err != nil {
		t.Fatalf("record: %v", err)
	}

	// The undone +10 branch is gone for good.
	if h.CanRedo() {
		t.Error("CanRedo() = true after recording over an undone action")
	}
	if counter != 101 {
		t.Errorf("counter = %d, want 101", counter)
	}

	record, err := h.Redo(ctx)
	if err != nil {
		t.Fatalf("redo: %v", err)
	}
	if record != nil {
		t.Errorf("redo past the end returned %+v, want nil", record)
	}
}

func TestHistory_NoOpsReturnNil(t *testing.T) {
	h := usecase.NewHistory(mocks.NewSequenceIDGenerator())
	ctx := context.Background()

	record, err := h.Undo(ctx)
	if err != nil || record != nil {
		t.Errorf("Undo() on empty history = (%+v, %v), want (nil, nil)", record, err)
	}

	record, err = h.Redo(ctx)
	if err != nil || record != nil {
		t.Errorf("Redo() on empty history = (%+v, %v), want (nil, nil)", record, err)
	}
}

func TestHistory_FailedForwardLeavesHistoryUntouched(t *testing.T) {
	h := usecase.NewHistory(mocks.NewSequenceIDGenerator())
	ctx := context.Background()

	boom := errors.New("boom")
	forward := func(ctx context.Context) error { return boom }
	inverse := func(ctx context.Context) error { return nil }

	if _, err := h.Record(ctx, domain.ActionAdd, nil, forward, inverse); !errors.Is(err, boom) {
		t.Fatalf("expected forward error, got %v", err)
	}

	if h.CanUndo() {
		t.Error("failed forward must not be recorded")
	}
	if len(h.Records()) != 0 {
		t.Errorf("Records() = %d entries, want 0", len(h.Records()))
	}
}

func TestHistory_FailedInverseKeepsCursor(t *testing.T) {
	h := usecase.NewHistory(mocks.NewSequenceIDGenerator())
	ctx := context.Background()

	boom := errors.New("boom")
	forward := func(ctx context.Context) error { return nil }
	inverse := func(ctx context.Context) error { return boom }

	if _, err := h.Record(ctx, domain.ActionAdd, nil, forward, inverse); err != nil {
		t.Fatalf("record: %v", err)
	}

	if _, err := h.Undo(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected inverse error, got %v", err)
	}

	// The action stays applied and undoable.
	if !h.CanUndo() {
		t.Error("failed undo must keep the action at the cursor")
	}
}

func TestHistory_RecordsListsAppliedOnly(t *testing.T) {
	h := usecase.NewHistory(mocks.NewSequenceIDGenerator())
	ctx := context.Background()

	noop := func(ctx context.Context) error { return nil }

	for _, kind := range []domain.ActionKind{domain.ActionAdd, domain.ActionEdit, domain.ActionDelete} {
		if _, err := h.Record(ctx, kind, nil, noop, noop); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	if _, err := h.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}

	records := h.Records()
	if len(records) != 2 {
		t.Fatalf("Records() = %d entries, want 2", len(records))
	}
	if records[0].Kind != domain.ActionAdd || records[1].Kind != domain.ActionEdit {
		t.Errorf("unexpected record order: %v, %v", records[0].Kind, records[1].Kind)
	}
}
