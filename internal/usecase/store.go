package usecase

import (
	"context"
	"fmt"

	"numledger/internal/domain"
)

// EntryStore is the source of truth for a project's entries. It keeps the
// working set in memory and writes the full list through the repository
// after every mutation; a failed write rolls the in-memory change back, so
// callers never observe a half-applied mutation.
type EntryStore struct {
	projectID string
	repo      Repository
	entries   []*domain.Entry
}

// NewEntryStore creates a store for one project.
func NewEntryStore(projectID string, repo Repository) *EntryStore {
	return &EntryStore{
		projectID: projectID,
		repo:      repo,
	}
}

// Load replaces the working set with the repository contents.
func (s *EntryStore) Load(ctx context.Context) error {
	entries, err := s.repo.LoadEntries(ctx, s.projectID)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}

	s.entries = entries

	return nil
}

// Insert validates and appends an entry, preserving creation order.
func (s *EntryStore) Insert(ctx context.Context, entry *domain.Entry) error {
	return s.InsertAt(ctx, entry, len(s.entries))
}

// InsertAt validates and inserts an entry at a specific position. Restoring
// a removed entry at its original index keeps the list replay-identical.
func (s *EntryStore) InsertAt(ctx context.Context, entry *domain.Entry, index int) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	if index < 0 || index > len(s.entries) {
		index = len(s.entries)
	}

	s.entries = append(s.entries, nil)
	copy(s.entries[index+1:], s.entries[index:])
	s.entries[index] = entry

	if err := s.persist(ctx); err != nil {
		s.entries = append(s.entries[:index], s.entries[index+1:]...)
		return err
	}

	return nil
}

// Replace swaps the record with the same ID for the given entry. The
// entry's number and type must match the stored record; those keys are
// immutable after creation.
func (s *EntryStore) Replace(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	idx := s.indexOf(entry.ID)
	if idx < 0 {
		return nil, domain.ErrEntryNotFound
	}

	old := s.entries[idx]
	if old.Number != entry.Number || old.EntryType != entry.EntryType {
		return nil, domain.ErrImmutableField
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	s.entries[idx] = entry

	if err := s.persist(ctx); err != nil {
		s.entries[idx] = old
		return nil, err
	}

	return old, nil
}

// Remove deletes the entry with the given ID and returns it along with its
// position, so callers can compute refunds and inverses.
func (s *EntryStore) Remove(ctx context.Context, id string) (*domain.Entry, int, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, -1, domain.ErrEntryNotFound
	}

	removed := s.entries[idx]
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)

	if err := s.persist(ctx); err != nil {
		s.entries = append(s.entries, nil)
		copy(s.entries[idx+1:], s.entries[idx:])
		s.entries[idx] = removed

		return nil, -1, err
	}

	return removed, idx, nil
}

// RemoveMany deletes every entry whose ID is present, best-effort: missing
// IDs are reported back, the rest proceed. Removed entries are returned with
// their original positions, ordered as they sat in the list.
func (s *EntryStore) RemoveMany(ctx context.Context, ids []string) (removed []*domain.Entry, indexes []int, missing []string, err error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	kept := make([]*domain.Entry, 0, len(s.entries))
	for i, e := range s.entries {
		if want[e.ID] {
			removed = append(removed, e)
			indexes = append(indexes, i)
			delete(want, e.ID)

			continue
		}

		kept = append(kept, e)
	}

	for _, id := range ids {
		if want[id] {
			missing = append(missing, id)
		}
	}

	if len(removed) == 0 {
		return nil, nil, missing, nil
	}

	prev := s.entries
	s.entries = kept

	if err := s.persist(ctx); err != nil {
		s.entries = prev
		return nil, nil, nil, err
	}

	return removed, indexes, missing, nil
}

// InsertAll validates and appends a batch of entries with a single
// repository write, so the batch lands all-or-nothing.
func (s *EntryStore) InsertAll(ctx context.Context, entries []*domain.Entry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	prev := s.entries
	s.entries = append(append(make([]*domain.Entry, 0, len(prev)+len(entries)), prev...), entries...)

	if err := s.persist(ctx); err != nil {
		s.entries = prev
		return err
	}

	return nil
}

// InsertAllAt restores a batch of removed entries at their original
// positions with a single repository write. Indexes must be the positions
// the entries held in the pre-removal list, ascending.
func (s *EntryStore) InsertAllAt(ctx context.Context, entries []*domain.Entry, indexes []int) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	prev := s.entries
	restored := append(make([]*domain.Entry, 0, len(prev)+len(entries)), prev...)

	for i, e := range entries {
		idx := indexes[i]
		if idx < 0 || idx > len(restored) {
			idx = len(restored)
		}

		restored = append(restored, nil)
		copy(restored[idx+1:], restored[idx:])
		restored[idx] = e
	}

	s.entries = restored

	if err := s.persist(ctx); err != nil {
		s.entries = prev
		return err
	}

	return nil
}

// Get returns a copy of the entry with the given ID.
func (s *EntryStore) Get(id string) (*domain.Entry, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}

	return s.entries[idx].Clone(), true
}

// List returns the project's entries in creation order. The slice is a
// fresh copy; the backing records are shared and must not be mutated.
func (s *EntryStore) List() []*domain.Entry {
	out := make([]*domain.Entry, len(s.entries))
	copy(out, s.entries)

	return out
}

// Len returns the number of stored entries.
func (s *EntryStore) Len() int {
	return len(s.entries)
}

func (s *EntryStore) indexOf(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}

	return -1
}

func (s *EntryStore) persist(ctx context.Context) error {
	if err := s.repo.SaveEntries(ctx, s.projectID, s.entries); err != nil {
		return fmt.Errorf("save entries: %w", err)
	}

	return nil
}
