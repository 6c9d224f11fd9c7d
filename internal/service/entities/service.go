// Package entities holds the CRUD service shared by every resource. Per-entity
// packages supply Hooks that turn request input into a record.
package entities

import (
	"context"

	"github.com/google/uuid"

	"salon/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Invalid builds a *ValidationError. Callers map it to a 400.
func Invalid(msg string) error {
	return &ValidationError{msg: msg}
}

// Hooks adapts the generic service to one entity. Build validates create input
// and returns the record to insert. Apply merges update input into the stored
// record; the id and timestamps are owned by the store.
type Hooks[T, In any] struct {
	Build func(ctx context.Context, in In) (T, error)
	Apply func(ctx context.Context, cur *T, in In) error
}

type Service[T, In any] struct {
	repo  store.EntityRepository[T]
	hooks Hooks[T, In]
}

func NewService[T, In any](repo store.EntityRepository[T], hooks Hooks[T, In]) *Service[T, In] {
	return &Service[T, In]{repo: repo, hooks: hooks}
}

func (s *Service[T, In]) Create(ctx context.Context, in In) (T, error) {
	v, err := s.hooks.Build(ctx, in)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.repo.Create(ctx, v)
}

func (s *Service[T, In]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	if id == uuid.Nil {
		var zero T
		return zero, Invalid("id is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service[T, In]) List(ctx context.Context) ([]T, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func (s *Service[T, In]) Update(ctx context.Context, id uuid.UUID, in In) (T, error) {
	if id == uuid.Nil {
		var zero T
		return zero, Invalid("id is required")
	}
	return s.repo.Update(ctx, id, func(cur *T) error {
		return s.hooks.Apply(ctx, cur, in)
	})
}

func (s *Service[T, In]) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return Invalid("id is required")
	}
	return s.repo.Delete(ctx, id)
}
