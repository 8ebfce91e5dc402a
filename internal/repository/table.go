package repository

import (
	"slices"
	"sync"
	"time"
)

// Clock returns the current time. Repositories stamp records with it.
type Clock func() time.Time

// table is a mutex-guarded map of rows keyed by a per-table id sequence.
// Ids start at 1 and are never reused.
type table[T any] struct {
	mu    sync.RWMutex
	last  int64
	rows  map[int64]T
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T]{rows: make(map[int64]T), clone: clone}
}

// insert checks the candidate row against every stored row, then stores it
// under the next id.
func (t *table[T]) insert(build func(id int64) T, check func(candidate, existing T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	candidate := build(t.last + 1)
	if check != nil {
		for _, row := range t.rows {
			if err := check(candidate, row); err != nil {
				var zero T
				return zero, err
			}
		}
	}
	t.last++
	t.rows[t.last] = candidate
	return t.clone(candidate), nil
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(row), true
}

// first returns the lowest-id row matching pred.
func (t *table[T]) first(pred func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, id := range t.sortedIDs() {
		if row := t.rows[id]; pred(row) {
			return t.clone(row), true
		}
	}
	var zero T
	return zero, false
}

// update applies mutate to a copy of the row, checks it against every other
// row and only then stores it.
func (t *table[T]) update(id int64, mutate func(*T), check func(candidate, existing T) error) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	row, ok := t.rows[id]
	if !ok {
		return zero, false, nil
	}
	candidate := t.clone(row)
	mutate(&candidate)
	if check != nil {
		for otherID, other := range t.rows {
			if otherID == id {
				continue
			}
			if err := check(candidate, other); err != nil {
				return zero, true, err
			}
		}
	}
	t.rows[id] = candidate
	return t.clone(candidate), true, nil
}

func (t *table[T]) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// filter returns matching rows ordered by id. A nil pred matches everything.
func (t *table[T]) filter(pred func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.rows))
	for _, id := range t.sortedIDs() {
		row := t.rows[id]
		if pred == nil || pred(row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}

func (t *table[T]) sortedIDs() []int64 {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
