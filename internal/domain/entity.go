package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is implemented by pointers to every persisted entity.
type Record interface {
	GetID() uuid.UUID
	SetID(id uuid.UUID)
	Touch(now time.Time, insert bool) error
}

// Meta carries the columns shared by all tables. Embed it next to bun.BaseModel.
type Meta struct {
	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (m *Meta) GetID() uuid.UUID {
	return m.ID
}

func (m *Meta) SetID(id uuid.UUID) {
	m.ID = id
}

// Touch assigns a UUIDv7 and creation time on insert and always bumps UpdatedAt.
func (m *Meta) Touch(now time.Time, insert bool) error {
	now = now.UTC()
	if insert {
		if m.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			m.ID = id
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = now
		}
		return nil
	}
	m.UpdatedAt = now
	return nil
}

func (m *Meta) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		return m.Touch(time.Now(), true)
	case *bun.UpdateQuery:
		return m.Touch(time.Now(), false)
	}
	return nil
}
