// Package catalog manages the salon's service menu.
package catalog

import (
	"context"
	"math"
	"strings"

	"salon/backend/internal/domain"
	"salon/backend/internal/service/entities"
	"salon/backend/internal/store"
)

type Input struct {
	Name   string
	Detail string
	Price  *float64
}

type Service = entities.Service[domain.Service, Input]

func NewService(repo store.ServiceRepository) *Service {
	return entities.NewService[domain.Service, Input](repo, entities.Hooks[domain.Service, Input]{
		Build: build,
		Apply: apply,
	})
}

func build(ctx context.Context, in Input) (domain.Service, error) {
	var s domain.Service
	if err := apply(ctx, &s, in); err != nil {
		return domain.Service{}, err
	}
	return s, nil
}

func apply(ctx context.Context, cur *domain.Service, in Input) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entities.Invalid("name is required")
	}
	detail := strings.TrimSpace(in.Detail)
	if detail == "" {
		return entities.Invalid("detail is required")
	}
	if in.Price == nil {
		return entities.Invalid("price is required")
	}
	price := *in.Price
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return entities.Invalid("price must be a non-negative number")
	}

	cur.Name = name
	cur.Detail = detail
	cur.Price = price
	return nil
}
