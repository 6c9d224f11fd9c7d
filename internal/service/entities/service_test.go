package entities

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"salon/backend/internal/store"
)

type item struct {
	ID   uuid.UUID
	Name string
}

type fakeRepo struct {
	createFn func(ctx context.Context, v item) (item, error)
	getFn    func(ctx context.Context, id uuid.UUID) (item, error)
	listFn   func(ctx context.Context) ([]item, error)
	updateFn func(ctx context.Context, id uuid.UUID, mutate func(*item) error) (item, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepo) Create(ctx context.Context, v item) (item, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, v)
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (item, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx, id)
}

func (f *fakeRepo) List(ctx context.Context) ([]item, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx)
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, mutate func(*item) error) (item, error) {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, id, mutate)
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

var itemHooks = Hooks[item, string]{
	Build: func(ctx context.Context, in string) (item, error) {
		name := strings.TrimSpace(in)
		if name == "" {
			return item{}, Invalid("name is required")
		}
		return item{Name: name}, nil
	},
	Apply: func(ctx context.Context, cur *item, in string) error {
		cur.Name = strings.TrimSpace(in)
		return nil
	},
}

func TestServiceCreate_BuildErrorSkipsRepo(t *testing.T) {
	svc := NewService[item, string](&fakeRepo{}, itemHooks)

	_, err := svc.Create(context.Background(), "   ")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Error() != "name is required" {
		t.Fatalf("error = %q, want %q", vErr.Error(), "name is required")
	}
}

func TestServiceCreate_PassesBuiltRecord(t *testing.T) {
	var got item
	svc := NewService[item, string](&fakeRepo{
		createFn: func(ctx context.Context, v item) (item, error) {
			got = v
			v.ID = uuid.New()
			return v, nil
		},
	}, itemHooks)

	out, err := svc.Create(context.Background(), "  trim me ")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Name != "trim me" {
		t.Fatalf("name = %q, want %q", got.Name, "trim me")
	}
	if out.ID == uuid.Nil {
		t.Fatalf("expected id from repo")
	}
}

func TestServiceUpdate_AppliesHookToStoredRecord(t *testing.T) {
	id := uuid.New()
	stored := item{ID: id, Name: "old"}
	svc := NewService[item, string](&fakeRepo{
		updateFn: func(ctx context.Context, gotID uuid.UUID, mutate func(*item) error) (item, error) {
			if gotID != id {
				t.Fatalf("id = %s, want %s", gotID, id)
			}
			v := stored
			if err := mutate(&v); err != nil {
				return item{}, err
			}
			return v, nil
		},
	}, itemHooks)

	out, err := svc.Update(context.Background(), id, " new ")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if out.ID != id || out.Name != "new" {
		t.Fatalf("out = %+v", out)
	}
}

func TestService_NilIDIsValidationError(t *testing.T) {
	svc := NewService[item, string](&fakeRepo{}, itemHooks)
	ctx := context.Background()

	var vErr *ValidationError
	if _, err := svc.Get(ctx, uuid.Nil); !errors.As(err, &vErr) {
		t.Fatalf("Get err = %v, want *ValidationError", err)
	}
	if _, err := svc.Update(ctx, uuid.Nil, "x"); !errors.As(err, &vErr) {
		t.Fatalf("Update err = %v, want *ValidationError", err)
	}
	if err := svc.Delete(ctx, uuid.Nil); !errors.As(err, &vErr) {
		t.Fatalf("Delete err = %v, want *ValidationError", err)
	}
}

func TestService_PassesThroughNotFound(t *testing.T) {
	svc := NewService[item, string](&fakeRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (item, error) {
			return item{}, store.ErrNotFound
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			return store.ErrNotFound
		},
	}, itemHooks)
	ctx := context.Background()

	if _, err := svc.Get(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get err = %v, want %v", err, store.ErrNotFound)
	}
	if err := svc.Delete(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Delete err = %v, want %v", err, store.ErrNotFound)
	}
}

func TestServiceList_EmptyIsNonNil(t *testing.T) {
	svc := NewService[item, string](&fakeRepo{
		listFn: func(ctx context.Context) ([]item, error) {
			return nil, nil
		},
	}, itemHooks)

	rows, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("rows = %#v, want empty non-nil slice", rows)
	}
}
