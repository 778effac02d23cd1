package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindPatient(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Patient, error)
	FindAdmission(ctx context.Context, db *gorm.DB, id snowflake.ID) (*AdmissionDetail, error)
	FindActiveAdmissionByPatient(ctx context.Context, db *gorm.DB, patientID snowflake.ID) (*AdmissionDetail, error)

	// DischargeAdmission and ReleaseBed are the payment processor's cascade
	// writes; both must be called on a transaction handle.
	DischargeAdmission(ctx context.Context, db *gorm.DB, admissionID snowflake.ID, at time.Time, note string) error
	ReleaseBed(ctx context.Context, db *gorm.DB, bedID snowflake.ID) error
}
