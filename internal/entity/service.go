// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package entity

import (
	"context"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of entity operation spans.
const TracerName = "poseiden/entity"

// ServiceConfig holds dependencies for Service.
type ServiceConfig[T Entity[T]] struct {
	Repo     Repository[T]
	Observer Observer     // optional
	Tracer   trace.Tracer // optional; defaults to the global TracerName tracer
}

// Service implements create, update, delete, findById and findAll for one
// record type. It holds no mutable state of its own.
type Service[T Entity[T]] struct {
	repo     Repository[T]
	observer Observer
	tracer   trace.Tracer
	kind     string
}

// NewService creates a Service over cfg.Repo.
func NewService[T Entity[T]](cfg ServiceConfig[T]) (*Service[T], error) {
	var zero T
	if cfg.Repo == nil {
		return nil, oops.Code("ENTITY_SERVICE_INVALID").With("entity", zero.Kind()).Errorf("repository is required")
	}
	observer := cfg.Observer
	if observer == nil {
		observer = noopObserver{}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &Service[T]{repo: cfg.Repo, observer: observer, tracer: tracer, kind: zero.Kind()}, nil
}

// Kind returns the record type this service manages.
func (s *Service[T]) Kind() string {
	return s.kind
}

// Create validates candidate and persists it. Any identity on candidate is
// discarded; the returned value carries the store-assigned id.
func (s *Service[T]) Create(ctx context.Context, candidate T) (created T, err error) {
	ctx, end := s.begin(ctx, OpCreate)
	defer func() { end(err) }()

	if err := s.validate(candidate); err != nil {
		return created, err
	}
	created, err = s.repo.Create(ctx, candidate.WithID(0))
	if err != nil {
		return created, oops.Code("ENTITY_CREATE_FAILED").With("entity", s.kind).Wrap(err)
	}
	return created, nil
}

// Update overwrites every business field of record id with those of
// incoming. The identity and creation provenance come from the stored record.
// Returns NotFound(id) without writing if no record has the id.
func (s *Service[T]) Update(ctx context.Context, id int64, incoming T) (updated T, err error) {
	ctx, end := s.begin(ctx, OpUpdate, attribute.Int64("entity.id", id))
	defer func() { end(err) }()

	if err := s.validate(incoming); err != nil {
		return updated, err
	}
	stored, err := s.find(ctx, id)
	if err != nil {
		return updated, err
	}
	updated, err = s.repo.Save(ctx, incoming.Replace(stored))
	if err != nil {
		return updated, s.storeError("ENTITY_UPDATE_FAILED", id, err)
	}
	return updated, nil
}

// Delete removes record id. Returns NotFound(id) if it does not exist,
// including when it was already deleted.
func (s *Service[T]) Delete(ctx context.Context, id int64) (err error) {
	ctx, end := s.begin(ctx, OpDelete, attribute.Int64("entity.id", id))
	defer func() { end(err) }()

	stored, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, stored); err != nil {
		return s.storeError("ENTITY_DELETE_FAILED", id, err)
	}
	return nil
}

// FindByID returns record id or NotFound(id).
func (s *Service[T]) FindByID(ctx context.Context, id int64) (found T, err error) {
	ctx, end := s.begin(ctx, OpFindByID, attribute.Int64("entity.id", id))
	defer func() { end(err) }()
	return s.find(ctx, id)
}

// FindAll returns every record ordered by id.
func (s *Service[T]) FindAll(ctx context.Context) (all []T, err error) {
	ctx, end := s.begin(ctx, OpFindAll)
	defer func() { end(err) }()

	all, err = s.repo.FindAll(ctx)
	if err != nil {
		return nil, oops.Code("ENTITY_LIST_FAILED").With("entity", s.kind).Wrap(err)
	}
	return all, nil
}

// begin starts the span of one operation. The returned func ends it and
// reports the outcome to the observer.
func (s *Service[T]) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	attrs = append(attrs, attribute.String("entity.kind", s.kind))
	ctx, span := s.tracer.Start(ctx, "entity."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.observer.ObserveOperation(s.kind, op, err)
	}
}

func (s *Service[T]) find(ctx context.Context, id int64) (T, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return found, s.storeError("ENTITY_LOOKUP_FAILED", id, err)
	}
	return found, nil
}

// storeError maps a repository failure on id. Anything wrapping ErrNotFound
// becomes a fresh NotFound so the reported code is always ENTITY_NOT_FOUND.
func (s *Service[T]) storeError(code string, id int64, err error) error {
	if IsNotFound(err) {
		return NotFound(s.kind, id)
	}
	return oops.Code(code).With("entity", s.kind).With("id", id).Wrap(err)
}

func (s *Service[T]) validate(e T) error {
	return Check(e)
}
