package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	encounterdomain "github.com/wardbooklabs/wardbook/internal/encounter/domain"
	"github.com/wardbooklabs/wardbook/internal/reporting/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

type countAmountRow struct {
	Count       int64
	AmountCents int64
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, todayStart, monthStart, overdueBefore time.Time) (*domain.Stats, error) {
	stats := &domain.Stats{}

	var pending countAmountRow
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS count, COALESCE(SUM(total_cents - paid_cents), 0) AS amount_cents
		 FROM bills WHERE payment_status IN (?, ?)`,
		billingdomain.BillPending, billingdomain.BillPartial,
	).Scan(&pending).Error
	if err != nil {
		return nil, err
	}
	stats.PendingBills = pending.Count
	stats.PendingAmountCents = pending.AmountCents

	err = db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payment_transactions WHERE processed_at >= ?`,
		todayStart,
	).Scan(&stats.RevenueTodayCents).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payment_transactions WHERE processed_at >= ?`,
		monthStart,
	).Scan(&stats.RevenueMonthCents).Error
	if err != nil {
		return nil, err
	}

	var overdue countAmountRow
	err = db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS count, COALESCE(SUM(total_cents - paid_cents), 0) AS amount_cents
		 FROM bills WHERE payment_status != ? AND created_at < ?`,
		billingdomain.BillPaid, overdueBefore,
	).Scan(&overdue).Error
	if err != nil {
		return nil, err
	}
	stats.OverdueBills = overdue.Count
	stats.OverdueAmountCents = overdue.AmountCents

	return stats, nil
}

func (r *repo) ListBills(ctx context.Context, db *gorm.DB, filter domain.ListBillsFilter) ([]domain.BillSummary, error) {
	query := db.WithContext(ctx).
		Table("bills").
		Select(`bills.*, patients.first_name || ' ' || patients.last_name AS patient_name,
		        patients.medical_number AS medical_number`).
		Joins("JOIN patients ON patients.id = bills.patient_id")

	if filter.Status != "" {
		query = query.Where("bills.payment_status = ?", filter.Status)
	}
	if filter.Unsettled {
		query = query.Where("bills.payment_status IN (?, ?)",
			billingdomain.BillPending, billingdomain.BillPartial)
	}
	if filter.PatientID != nil {
		query = query.Where("bills.patient_id = ?", *filter.PatientID)
	}
	if filter.From != nil {
		query = query.Where("bills.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("bills.created_at <= ?", *filter.To)
	}

	query = filter.Page.ApplyColumns(query, "bills.created_at", "bills.id").
		Order("bills.created_at DESC, bills.id DESC")

	var rows []domain.BillSummary
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) BillWithPatient(ctx context.Context, db *gorm.DB, billID snowflake.ID) (*billingdomain.Bill, *encounterdomain.Patient, error) {
	var bill billingdomain.Bill
	err := db.WithContext(ctx).Raw(`SELECT * FROM bills WHERE id = ?`, billID).Scan(&bill).Error
	if err != nil {
		return nil, nil, err
	}
	if bill.ID == 0 {
		return nil, nil, billingdomain.ErrBillNotFound
	}

	var patient encounterdomain.Patient
	err = db.WithContext(ctx).Raw(`SELECT * FROM patients WHERE id = ?`, bill.PatientID).Scan(&patient).Error
	if err != nil {
		return nil, nil, err
	}
	if patient.ID == 0 {
		return nil, nil, encounterdomain.ErrPatientNotFound
	}
	return &bill, &patient, nil
}

func (r *repo) ActiveAdmissions(ctx context.Context, db *gorm.DB) ([]domain.ActiveAdmission, error) {
	var rows []domain.ActiveAdmission
	err := db.WithContext(ctx).Raw(
		`SELECT a.id AS admission_id,
		        a.patient_id AS patient_id,
		        p.first_name || ' ' || p.last_name AS patient_name,
		        p.medical_number AS medical_number,
		        COALESCE(w.name, '') AS ward_name,
		        COALESCE(b.bed_number, '') AS bed_number,
		        a.admitted_at AS admitted_at,
		        a.reason AS reason,
		        EXISTS (SELECT 1 FROM bills WHERE bills.admission_id = a.id) AS has_bill
		 FROM admissions a
		 JOIN patients p ON p.id = a.patient_id
		 LEFT JOIN beds b ON b.id = a.bed_id
		 LEFT JOIN wards w ON w.id = b.ward_id
		 WHERE a.status = ?
		 ORDER BY a.admitted_at ASC`,
		encounterdomain.AdmissionActive,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
