// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package postgres implements the record repositories on PostgreSQL with
// hand-written SQL over a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/poseiden/backoffice/internal/entity"
	"github.com/poseiden/backoffice/internal/store"
)

// Mapping binds a record type to its table.
type Mapping[T entity.Entity[T]] struct {
	Table    string
	IDColumn string
	// Columns are the business columns, in the order Values returns them.
	Columns []string
	Values  func(T) []any
	// Scan reads IDColumn followed by Columns.
	Scan func(row pgx.Row) (T, error)
	// MapError optionally translates write failures, e.g. constraint violations.
	MapError func(err error, e T) error
}

// Repository implements entity.Repository for one Mapping.
type Repository[T entity.Entity[T]] struct {
	pool store.Pool
	m    Mapping[T]
	kind string

	insertSQL string
	selectSQL string
	updateSQL string
	deleteSQL string
}

// NewRepository builds the statements for m.
func NewRepository[T entity.Entity[T]](pool store.Pool, m Mapping[T]) *Repository[T] {
	var zero T
	placeholders := make([]string, len(m.Columns))
	assignments := make([]string, len(m.Columns))
	for i, col := range m.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}
	cols := strings.Join(m.Columns, ", ")

	return &Repository[T]{
		pool: pool,
		m:    m,
		kind: zero.Kind(),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			m.Table, cols, strings.Join(placeholders, ", "), m.IDColumn),
		selectSQL: fmt.Sprintf("SELECT %s, %s FROM %s", m.IDColumn, cols, m.Table),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1",
			m.Table, strings.Join(assignments, ", "), m.IDColumn),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE %s = $1", m.Table, m.IDColumn),
	}
}

// Create inserts e and returns it with the assigned id.
func (r *Repository[T]) Create(ctx context.Context, e T) (T, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, r.insertSQL, r.m.Values(e)...).Scan(&id); err != nil {
		return e, r.writeError(err, e, "insert")
	}
	return e.WithID(id), nil
}

// FindByID returns record id.
func (r *Repository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	return r.findOne(ctx, r.selectSQL+" WHERE "+r.m.IDColumn+" = $1", id)
}

func (r *Repository[T]) findOne(ctx context.Context, query string, arg any) (T, error) {
	e, err := r.m.Scan(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		if id, ok := arg.(int64); ok {
			return e, entity.NotFound(r.kind, id)
		}
		return e, entity.NotFoundByName(r.kind, fmt.Sprint(arg))
	}
	if err != nil {
		return e, oops.Code("DB_QUERY_FAILED").
			With("operation", "select "+r.m.Table).
			With("key", arg).
			Wrap(err)
	}
	return e, nil
}

// FindAll returns every record ordered by id.
func (r *Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	return r.findMany(ctx, r.selectSQL+" ORDER BY "+r.m.IDColumn)
}

func (r *Repository[T]) findMany(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("operation", "list "+r.m.Table).Wrap(err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		e, err := r.m.Scan(rows)
		if err != nil {
			return nil, oops.Code("DB_SCAN_FAILED").With("operation", "scan "+r.m.Table).Wrap(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("DB_ROWS_ERROR").With("operation", "iterate "+r.m.Table).Wrap(err)
	}
	return out, nil
}

// Save overwrites every business column of the row with e's id.
func (r *Repository[T]) Save(ctx context.Context, e T) (T, error) {
	args := append([]any{e.EntityID()}, r.m.Values(e)...)
	tag, err := r.pool.Exec(ctx, r.updateSQL, args...)
	if err != nil {
		return e, r.writeError(err, e, "update")
	}
	if tag.RowsAffected() == 0 {
		return e, entity.NotFound(r.kind, e.EntityID())
	}
	return e, nil
}

// Delete removes the row with e's id.
func (r *Repository[T]) Delete(ctx context.Context, e T) error {
	tag, err := r.pool.Exec(ctx, r.deleteSQL, e.EntityID())
	if err != nil {
		return oops.Code("DB_EXEC_FAILED").
			With("operation", "delete "+r.m.Table).
			With("id", e.EntityID()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return entity.NotFound(r.kind, e.EntityID())
	}
	return nil
}

func (r *Repository[T]) writeError(err error, e T, op string) error {
	if r.m.MapError != nil {
		if mapped := r.m.MapError(err, e); mapped != nil {
			return mapped
		}
	}
	return oops.Code("DB_EXEC_FAILED").
		With("operation", op+" "+r.m.Table).
		With("id", e.EntityID()).
		Wrap(err)
}
