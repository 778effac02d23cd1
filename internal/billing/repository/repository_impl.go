package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/wardbooklabs/wardbook/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertBill(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bills (
			id, patient_id, admission_id, subtotal_cents, tax_cents, discount_cents,
			total_cents, paid_cents, payment_status, payment_method, metadata,
			created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID,
		bill.PatientID,
		bill.AdmissionID,
		bill.SubtotalCents,
		bill.TaxCents,
		bill.DiscountCents,
		bill.TotalCents,
		bill.PaidCents,
		bill.PaymentStatus,
		bill.PaymentMethod,
		bill.Metadata,
		bill.CreatedBy,
		bill.CreatedAt,
		bill.UpdatedAt,
	).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.BillItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) FindBillByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT id, patient_id, admission_id, subtotal_cents, tax_cents, discount_cents,
		        total_cents, paid_cents, payment_status, payment_method, metadata,
		        created_by, created_at, updated_at
		 FROM bills WHERE id = ?`,
		id,
	).Scan(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, domain.ErrBillNotFound
	}
	return &bill, nil
}

func (r *repo) ListItemsByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]domain.BillItem, error) {
	var items []domain.BillItem
	err := db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateBillFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&domain.Bill{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repo) DeleteBill(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	if err := db.WithContext(ctx).Exec(`DELETE FROM bill_items WHERE bill_id = ?`, id).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(`DELETE FROM bills WHERE id = ?`, id).Error
}

func (r *repo) CountPaymentsByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("payment_transactions").
		Where("bill_id = ?", billID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
