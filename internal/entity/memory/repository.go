// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package memory provides in-process repositories for every record type.
// They back the "memory" storage mode and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/poseiden/backoffice/internal/entity"
)

// Repository is a mutex-guarded map keyed by id. Ids are assigned from a
// counter starting at 1 and are never reused.
type Repository[T entity.Entity[T]] struct {
	mu     sync.RWMutex
	rows   map[int64]T
	nextID int64
}

// NewRepository creates an empty Repository.
func NewRepository[T entity.Entity[T]]() *Repository[T] {
	return &Repository[T]{rows: make(map[int64]T), nextID: 1}
}

// Create assigns the next id to e and stores it.
func (r *Repository[T]) Create(_ context.Context, e T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(e), nil
}

func (r *Repository[T]) insertLocked(e T) T {
	stored := e.WithID(r.nextID)
	r.nextID++
	r.rows[stored.EntityID()] = stored
	return stored
}

// FindByID returns record id.
func (r *Repository[T]) FindByID(_ context.Context, id int64) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rows[id]
	if !ok {
		return e, entity.NotFound(e.Kind(), id)
	}
	return e, nil
}

// FindAll returns every record ordered by id.
func (r *Repository[T]) FindAll(_ context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(), nil
}

func (r *Repository[T]) sortedLocked() []T {
	out := make([]T, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID() < out[j].EntityID() })
	return out
}

// Save overwrites the record with e's id.
func (r *Repository[T]) Save(_ context.Context, e T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[e.EntityID()]; !ok {
		return e, entity.NotFound(e.Kind(), e.EntityID())
	}
	r.rows[e.EntityID()] = e
	return e, nil
}

// Delete removes the record with e's id.
func (r *Repository[T]) Delete(_ context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[e.EntityID()]; !ok {
		return entity.NotFound(e.Kind(), e.EntityID())
	}
	delete(r.rows, e.EntityID())
	return nil
}

// Len returns the number of stored records.
func (r *Repository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

var _ entity.Repository[entity.Bid] = (*Repository[entity.Bid])(nil)
