package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/wardbooklabs/wardbook/internal/charges/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

type chargeRow struct {
	Count      int64
	TotalCents int64
}

func (r *repo) CountCompletedVisits(ctx context.Context, db *gorm.DB, patientID snowflake.ID, w domain.Window) (int64, error) {
	query := db.WithContext(ctx).
		Model(&domain.MedicalRecord{}).
		Where("patient_id = ? AND status = ?", patientID, "completed")
	query = applyWindow(query, "visited_at", w)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) CompletedLabTests(ctx context.Context, db *gorm.DB, patientID snowflake.ID, w domain.Window) (domain.Charge, error) {
	query := db.WithContext(ctx).
		Table("lab_order_tests AS t").
		Select("COUNT(t.id) AS count, COALESCE(SUM(c.cost_cents), 0) AS total_cents").
		Joins("JOIN lab_orders AS o ON o.id = t.lab_order_id").
		Joins("JOIN lab_test_catalog AS c ON c.id = t.catalog_id").
		Where("o.patient_id = ? AND o.status = ?", patientID, domain.LabOrderCompleted)
	query = applyWindow(query, "o.ordered_at", w)

	var row chargeRow
	if err := query.Scan(&row).Error; err != nil {
		return domain.Charge{}, err
	}
	return domain.Charge{Count: row.Count, TotalCents: row.TotalCents}, nil
}

func (r *repo) PrescribedMedicines(ctx context.Context, db *gorm.DB, patientID snowflake.ID, w domain.Window) (domain.Charge, error) {
	// Prescriptions join inventory by case-insensitive name; a prescription
	// with no matching medicine contributes zero rather than failing.
	query := db.WithContext(ctx).
		Table("prescriptions AS p").
		Select("COUNT(p.id) AS count, COALESCE(SUM(m.unit_price_cents * p.quantity), 0) AS total_cents").
		Joins("LEFT JOIN medicines AS m ON LOWER(m.name) = LOWER(p.medication_name)").
		Where("p.patient_id = ?", patientID)
	query = applyWindow(query, "p.prescribed_at", w)

	var row chargeRow
	if err := query.Scan(&row).Error; err != nil {
		return domain.Charge{}, err
	}
	return domain.Charge{Count: row.Count, TotalCents: row.TotalCents}, nil
}

func (r *repo) CountVitalRecordings(ctx context.Context, db *gorm.DB, patientID snowflake.ID, w domain.Window) (int64, error) {
	query := db.WithContext(ctx).
		Model(&domain.VitalSign{}).
		Where("patient_id = ?", patientID)
	query = applyWindow(query, "recorded_at", w)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) EquipmentUsage(ctx context.Context, db *gorm.DB, patientID snowflake.ID, w domain.Window) (domain.Charge, error) {
	query := db.WithContext(ctx).
		Table("inventory_transactions").
		Select("COUNT(id) AS count, COALESCE(SUM(ABS(quantity_changed) * unit_price_cents), 0) AS total_cents").
		Where("txn_type = ? AND patient_id = ?", domain.InventoryTxnUsage, patientID)
	query = applyWindow(query, "occurred_at", w)

	var row chargeRow
	if err := query.Scan(&row).Error; err != nil {
		return domain.Charge{}, err
	}
	return domain.Charge{Count: row.Count, TotalCents: row.TotalCents}, nil
}

func applyWindow(query *gorm.DB, column string, w domain.Window) *gorm.DB {
	if w.From != nil {
		query = query.Where(column+" >= ?", *w.From)
	}
	if w.To != nil {
		query = query.Where(column+" <= ?", *w.To)
	}
	return query
}
