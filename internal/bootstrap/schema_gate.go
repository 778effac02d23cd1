// Package bootstrap refuses to serve against a database whose schema does
// not match the binary. The bill insert shape is a build-time contract; an
// environment missing bill columns fails here instead of branching at
// insert time.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wardbooklabs/wardbook/internal/migration"
	"gorm.io/gorm"
)

var (
	ErrSchemaInactive         = errors.New("schema bootstrap state is not active")
	ErrSchemaVersionMismatch  = errors.New("schema version mismatch")
	ErrSchemaChecksumMismatch = errors.New("schema checksum mismatch")
)

type SchemaGate interface {
	MustBeActive(ctx context.Context) error
}

type schemaGate struct {
	db               *gorm.DB
	expectedVersion  string
	expectedChecksum string
}

func NewSchemaGate(db *gorm.DB) (SchemaGate, error) {
	if db == nil {
		return nil, errors.New("schema gate requires database handle")
	}

	latest, err := migration.LatestVersion()
	if err != nil {
		return nil, err
	}
	checksum, err := migration.Checksum()
	if err != nil {
		return nil, err
	}

	return &schemaGate{
		db:               db,
		expectedVersion:  fmt.Sprintf("%d", latest),
		expectedChecksum: checksum,
	}, nil
}

func (g *schemaGate) MustBeActive(ctx context.Context) error {
	state, err := loadSchemaState(ctx, g.db)
	if err != nil {
		return err
	}

	if state.Status != StatusActive {
		return fmt.Errorf("%w: status=%s", ErrSchemaInactive, state.Status)
	}
	if state.SchemaVersion != g.expectedVersion {
		return fmt.Errorf("%w: state=%s expected=%s", ErrSchemaVersionMismatch, state.SchemaVersion, g.expectedVersion)
	}
	if state.Checksum != nil && strings.TrimSpace(*state.Checksum) != "" {
		if *state.Checksum != g.expectedChecksum {
			return fmt.Errorf("%w: state=%s expected=%s", ErrSchemaChecksumMismatch, *state.Checksum, g.expectedChecksum)
		}
	}
	return nil
}
