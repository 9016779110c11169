package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Doctor struct {
	bun.BaseModel `bun:"table:doctors"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	FirstName string    `bun:"first_name,notnull" json:"firstName"`
	LastName  string    `bun:"last_name,notnull" json:"lastName"`
	Age       int       `bun:"age,notnull" json:"age"`
	Email     string    `bun:"email,notnull" json:"email"`
}

func (d *Doctor) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		return assignID(&d.ID)
	}
	return nil
}

type Patient struct {
	bun.BaseModel `bun:"table:patients"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	FirstName string    `bun:"first_name,notnull" json:"firstName"`
	LastName  string    `bun:"last_name,notnull" json:"lastName"`
	Age       int       `bun:"age,notnull" json:"age"`
	Email     string    `bun:"email,notnull" json:"email"`
}

func (p *Patient) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		return assignID(&p.ID)
	}
	return nil
}

// Room is keyed by its name.
type Room struct {
	bun.BaseModel `bun:"table:rooms"`

	Name string `bun:"name,pk" json:"roomName"`
}
