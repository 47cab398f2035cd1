// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package entity implements the CRUD contract shared by every managed record
// type: bids, curve points, ratings, rules, trades and users.
package entity

import "context"

// Entity is implemented by value types managed through Service.
//
// Methods use value receivers; each returns a new value and never mutates
// the receiver.
type Entity[T any] interface {
	// Kind names the record type in errors and metrics, e.g. "bid".
	Kind() string
	// EntityID returns the store-assigned identity, or 0 if unsaved.
	EntityID() int64
	// WithID returns a copy carrying id.
	WithID(id int64) T
	// Replace returns the receiver's business fields merged onto the
	// identity and creation provenance of stored.
	Replace(stored T) T
	// Validate rejects structurally impossible values.
	Validate() error
}

// Repository is the persistence boundary for one record type.
//
// FindByID returns an error wrapping ErrNotFound when no record has the id.
// FindAll returns records ordered by id ascending.
type Repository[T any] interface {
	Create(ctx context.Context, e T) (T, error)
	FindByID(ctx context.Context, id int64) (T, error)
	FindAll(ctx context.Context) ([]T, error)
	Save(ctx context.Context, e T) (T, error)
	Delete(ctx context.Context, e T) error
}

// Observer is told the outcome of every service operation.
type Observer interface {
	ObserveOperation(kind, op string, err error)
}

// Operation names reported to Observer.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpFindByID = "find_by_id"
	OpFindAll  = "find_all"
)

type noopObserver struct{}

func (noopObserver) ObserveOperation(string, string, error) {}
