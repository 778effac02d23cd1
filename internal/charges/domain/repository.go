package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	CountCompletedVisits(ctx context.Context, db *gorm.DB, patientID snowflake.ID, w Window) (int64, error)
	CompletedLabTests(ctx context.Context, db *gorm.DB, patientID snowflake.ID, w Window) (Charge, error)
	PrescribedMedicines(ctx context.Context, db *gorm.DB, patientID snowflake.ID, w Window) (Charge, error)
	CountVitalRecordings(ctx context.Context, db *gorm.DB, patientID snowflake.ID, w Window) (int64, error)
	EquipmentUsage(ctx context.Context, db *gorm.DB, patientID snowflake.ID, w Window) (Charge, error)
}

// Service computes the per-category charges for one patient and window.
// All methods are read-only and safe to call repeatedly.
type Service interface {
	Consultation(ctx context.Context, patientID snowflake.ID, w Window) (Charge, error)
	Lab(ctx context.Context, patientID snowflake.ID, w Window) (Charge, error)
	Medicines(ctx context.Context, patientID snowflake.ID, w Window) (Charge, error)
	VitalRecordings(ctx context.Context, patientID snowflake.ID, w Window) (Charge, error)
	Equipment(ctx context.Context, patientID snowflake.ID, w Window) (Charge, error)
}
