package staff

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"salon/backend/internal/domain"
	"salon/backend/internal/service/entities"
	"salon/backend/internal/store"
)

type Input struct {
	Name      string
	Details   string
	Gender    string
	ServiceID *uuid.UUID
}

type Service = entities.Service[domain.Staff, Input]

func NewService(repo store.StaffRepository) *Service {
	return entities.NewService[domain.Staff, Input](repo, entities.Hooks[domain.Staff, Input]{
		Build: build,
		Apply: apply,
	})
}

func build(ctx context.Context, in Input) (domain.Staff, error) {
	var s domain.Staff
	if err := apply(ctx, &s, in); err != nil {
		return domain.Staff{}, err
	}
	return s, nil
}

func apply(ctx context.Context, cur *domain.Staff, in Input) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entities.Invalid("name is required")
	}
	gender, err := parseGender(in.Gender)
	if err != nil {
		return err
	}

	cur.Name = name
	cur.Details = strings.TrimSpace(in.Details)
	cur.Gender = gender
	cur.ServiceID = in.ServiceID
	return nil
}

func parseGender(s string) (domain.Gender, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	g := domain.Gender(strings.ToUpper(s))
	if !g.Valid() {
		return "", entities.Invalid("gender must be one of MALE, FEMALE, OTHER")
	}
	return g, nil
}
