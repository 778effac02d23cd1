package bootstrap

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending = "pending"
	StatusActive  = "active"
)

type SchemaState struct {
	ID            int16  `gorm:"primaryKey"`
	Status        string `gorm:"type:text;not null"`
	SchemaVersion string `gorm:"type:text;not null"`
	Checksum      *string
	ActivatedAt   *time.Time
}

func (SchemaState) TableName() string { return "schema_bootstrap_state" }

func loadSchemaState(ctx context.Context, db *gorm.DB) (*SchemaState, error) {
	var state SchemaState
	err := db.WithContext(ctx).Raw(
		`SELECT id, status, schema_version, checksum, activated_at
		 FROM schema_bootstrap_state WHERE id = 1`,
	).Scan(&state).Error
	if err != nil {
		return nil, err
	}
	if state.ID == 0 {
		return nil, errors.New("schema bootstrap state row is missing; run migrations")
	}
	return &state, nil
}
