package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"salon/backend/internal/domain"
	"salon/backend/internal/service/entities"
	"salon/backend/internal/store/memory"
)

func TestCreate_RequiresMobileNo(t *testing.T) {
	svc := NewService(memory.NewUserRepo())

	_, err := svc.Create(context.Background(), Input{Name: "Ada", MobileNo: "  "})
	var vErr *entities.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *entities.ValidationError", err)
	}
	if vErr.Error() != "mobile number must not be null" {
		t.Fatalf("error = %q", vErr.Error())
	}
}

func TestCreate_HashesPassword(t *testing.T) {
	svc := NewService(memory.NewUserRepo())

	u, err := svc.Create(context.Background(), Input{Name: "Ada", MobileNo: "0700", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret" {
		t.Fatalf("password was not hashed: %q", u.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash rejects the right password: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("wrong")); err == nil {
		t.Fatalf("stored hash accepts a wrong password")
	}
}

func TestUpdate_ReplacesProfileAndKeepsPassword(t *testing.T) {
	svc := NewService(memory.NewUserRepo())
	ctx := context.Background()

	u, err := svc.Create(ctx, Input{Name: "Ada", Email: "a@x.io", MobileNo: "0700", Password: "s3cret", Gender: "FEMALE"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Update(ctx, u.ID, Input{Name: "Ada L", Email: "ada@x.io", MobileNo: "0711", Password: "ignored"}); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	got, err := svc.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	want := domain.User{Name: "Ada L", Email: "ada@x.io", MobileNo: "0711"}
	if got.ID != u.ID || got.Name != want.Name || got.Email != want.Email || got.MobileNo != want.MobileNo || got.Gender != "" {
		t.Fatalf("got = %+v", got)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Fatalf("password hash changed on update")
	}
}

func TestList_ReturnsCreatedUsers(t *testing.T) {
	svc := NewService(memory.NewUserRepo())
	ctx := context.Background()

	ids := make(map[uuid.UUID]bool)
	for _, m := range []string{"1", "2", "3"} {
		u, err := svc.Create(ctx, Input{MobileNo: m})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		ids[u.ID] = true
	}

	rows, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(rows) != len(ids) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(ids))
	}
	for _, r := range rows {
		if !ids[r.ID] {
			t.Fatalf("unexpected user %s", r.ID)
		}
	}
}
