package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"numledger/internal/domain"
	"numledger/internal/usecase"
	"numledger/internal/usecase/mocks"
)

func testEntry(id string, number domain.Number, first int64) *domain.Entry {
	now := time.Now().UTC()

	return &domain.Entry{
		ID:        id,
		ProjectID: "p1",
		Number:    number,
		EntryType: domain.EntryKindAkra,
		First:     decimal.NewFromInt(first),
		Second:    decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newStore(t *testing.T, repo *mocks.MemoryRepository) *usecase.EntryStore {
	t.Helper()

	store := usecase.NewEntryStore("p1", repo)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	return store
}

func TestEntryStore_InsertPersists(t *testing.T) {
	repo := mocks.NewMemoryRepository()
	store := newStore(t, repo)
	ctx := context.Background()

	if err := store.Insert(ctx, testEntry("e1", "07", 100)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}

	stored := repo.StoredEntries("p1")
	if len(stored) != 1 || stored[0].ID != "e1" {
		t.Errorf("persisted entries = %+v", stored)
	}
}

func TestEntryStore_InsertRollsBackOnSaveFailure(t *testing.T) {
	repo := mocks.NewMemoryRepository()
	store := newStore(t, repo)
	ctx := context.Background()

	boom := errors.New("db down")
	repo.SaveEntriesFunc = func(ctx context.Context, projectID string, entries []*domain.Entry) error {
		return boom
	}

	if err := store.Insert(ctx, testEntry("e1", "07", 100)); !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}

	if store.Len() != 0 {
		t.Errorf("Len() = %d after failed insert, want 0", store.Len())
	}
}

func TestEntryStore_ReplaceProtectsImmutableFields(t *testing.T) {
	repo := mocks.NewMemoryRepository()
	store := newStore(t, repo)
	ctx := context.Background()

	if err := store.Insert(ctx, testEntry("e1", "07", 100)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	changedNumber := testEntry("e1", "23", 100)
	if _, err := store.Replace(ctx, changedNumber); !errors.Is(err, domain.ErrImmutableField) {
		t.Errorf("expected ErrImmutableField for number change, got %v", err)
	}

	changedType := testEntry("e1", "07", 100)
	changedType.EntryType = domain.EntryKindRing
	changedType.Number = "007"
	if _, err := store.Replace(ctx, changedType); !errors.Is(err, domain.ErrImmutableField) {
		t.Errorf("expected ErrImmutableField for type change, got %v", err)
	}

	amended := testEntry("e1", "07", 250)
	old, err := store.Replace(ctx, amended)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !old.First.Equal(decimal.NewFromInt(100)) {
		t.Errorf("returned old first = %s, want 100", old.First)
	}

	got, _ := store.Get("e1")
	if !got.First.Equal(decimal.NewFromInt(250)) {
		t.Errorf("stored first = %s, want 250", got.First)
	}
}

func TestEntryStore_RemoveReturnsPosition(t *testing.T) {
	repo := mocks.NewMemoryRepository()
	store := newStore(t, repo)
	ctx := context.Background()

	for i, id := range []string{"e1", "e2", "e3"} {
		if err := store.Insert(ctx, testEntry(id, "07", int64(100*(i+1)))); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	removed, idx, err := store.Remove(ctx, "e2")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.ID != "e2" || idx != 1 {
		t.Errorf("Remove() = (%s, %d), want (e2, 1)", removed.ID, idx)
	}

	// Restoring at the original index reproduces the original order.
	if err := store.InsertAt(ctx, removed, idx); err != nil {
		t.Fatalf("insert at: %v", err)
	}

	want := []string{"e1", "e2", "e3"}
	for i, e := range store.List() {
		if e.ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, e.ID, want[i])
		}
	}
}

func TestEntryStore_RemoveMissing(t *testing.T) {
	repo := mocks.NewMemoryRepository()
	store := newStore(t, repo)

	if _, _, err := store.Remove(context.Background(), "nope"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryStore_RemoveManyReportsMissing(t *testing.T) {
	repo := mocks.NewMemoryRepository()
	store := newStore(t, repo)
	ctx := context.Background()

	for _, id := range []string{"e1", "e2", "e3"} {
		if err := store.Insert(ctx, testEntry(id, "07", 100)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	removed, indexes, missing, err := store.RemoveMany(ctx, []string{"e1", "ghost", "e3"})
	if err != nil {
		t.Fatalf("remove many: %v", err)
	}

	if len(removed) != 2 || removed[0].ID != "e1" || removed[1].ID != "e3" {
		t.Errorf("removed = %+v", removed)
	}
	if len(indexes) != 2 || indexes[0] != 0 || indexes[1] != 2 {
		t.Errorf("indexes = %v, want [0 2]", indexes)
	}
	if len(missing) != 1 || missing[0] != "ghost" {
		t.Errorf("missing = %v, want [ghost]", missing)
	}

	if err := store.InsertAllAt(ctx, removed, indexes); err != nil {
		t.Fatalf("insert all at: %v", err)
	}

	want := []string{"e1", "e2", "e3"}
	for i, e := range store.List() {
		if e.ID != want[i] {
			t.Errorf("position %d after restore: got %s, want %s", i, e.ID, want[i])
		}
	}
}

func TestEntryStore_InsertAllIsAtomic(t *testing.T) {
	repo := mocks.NewMemoryRepository()
	store := newStore(t, repo)
	ctx := context.Background()

	batch := []*domain.Entry{
		testEntry("e1", "07", 100),
		testEntry("e2", "23", 200),
	}

	boom := errors.New("db down")
	repo.SaveEntriesFunc = func(ctx context.Context, projectID string, entries []*domain.Entry) error {
		return boom
	}

	if err := store.InsertAll(ctx, batch); !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after failed batch, want 0", store.Len())
	}

	repo.SaveEntriesFunc = nil

	if err := store.InsertAll(ctx, batch); err != nil {
		t.Fatalf("insert all: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
}

func TestEntryStore_GetReturnsCopy(t *testing.T) {
	repo := mocks.NewMemoryRepository()
	store := newStore(t, repo)
	ctx := context.Background()

	if err := store.Insert(ctx, testEntry("e1", "07", 100)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, ok := store.Get("e1")
	if !ok {
		t.Fatal("entry not found")
	}

	got.First = decimal.NewFromInt(999)

	again, _ := store.Get("e1")
	if !again.First.Equal(decimal.NewFromInt(100)) {
		t.Error("mutating the returned entry changed the stored record")
	}
}
