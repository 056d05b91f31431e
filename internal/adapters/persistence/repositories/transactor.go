package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs a function inside a database transaction. Engines use it to
// apply complaint, history and availability writes as one all-or-nothing unit;
// tests substitute a pass-through implementation.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor over the given database handle
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}
