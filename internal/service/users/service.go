package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"salon/backend/internal/domain"
	"salon/backend/internal/service/entities"
	"salon/backend/internal/store"
)

type Input struct {
	Name     string
	Email    string
	MobileNo string
	Password string
	Gender   string
}

type Service = entities.Service[domain.User, Input]

func NewService(repo store.UserRepository) *Service {
	h := hasher{cost: bcrypt.DefaultCost}
	return entities.NewService[domain.User, Input](repo, entities.Hooks[domain.User, Input]{
		Build: h.build,
		Apply: apply,
	})
}

type hasher struct {
	cost int
}

func (h hasher) build(ctx context.Context, in Input) (domain.User, error) {
	mobile := strings.TrimSpace(in.MobileNo)
	if mobile == "" {
		return domain.User{}, entities.Invalid("mobile number must not be null")
	}

	u := domain.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		MobileNo: mobile,
		Gender:   strings.TrimSpace(in.Gender),
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), h.cost)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	return u, nil
}

// apply replaces the profile fields. The stored password hash is kept.
func apply(ctx context.Context, cur *domain.User, in Input) error {
	cur.Name = strings.TrimSpace(in.Name)
	cur.Email = strings.TrimSpace(in.Email)
	cur.MobileNo = strings.TrimSpace(in.MobileNo)
	cur.Gender = strings.TrimSpace(in.Gender)
	return nil
}
