package domain

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Staff struct {
	bun.BaseModel `bun:"table:staff"`
	Meta

	Name      string     `bun:"name,notnull"`
	Details   string     `bun:"details"`
	Gender    Gender     `bun:"gender"`
	ServiceID *uuid.UUID `bun:"service_id,type:uuid"`
}

// Service is a catalog entry such as "Haircut".
type Service struct {
	bun.BaseModel `bun:"table:services"`
	Meta

	Name   string  `bun:"name,notnull"`
	Detail string  `bun:"detail,notnull"`
	Price  float64 `bun:"price,notnull"`
}
