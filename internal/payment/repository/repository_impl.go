package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	"github.com/wardbooklabs/wardbook/internal/payment/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindBillForUpdate(ctx context.Context, db *gorm.DB, billID snowflake.ID) (*billingdomain.Bill, error) {
	query := db.WithContext(ctx).Model(&billingdomain.Bill{}).Where("id = ?", billID)
	// SQLite has no SELECT FOR UPDATE; its writes serialize on the database
	// lock instead.
	if db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var bill billingdomain.Bill
	if err := query.Take(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billingdomain.ErrBillNotFound
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repo) InsertTransaction(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payment_transactions (
			id, bill_id, amount_cents, method, reference_number, receipt_number,
			status, notes, processed_by, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID,
		txn.BillID,
		txn.AmountCents,
		txn.Method,
		txn.ReferenceNumber,
		txn.ReceiptNumber,
		txn.Status,
		txn.Notes,
		txn.ProcessedBy,
		txn.ProcessedAt,
	).Error
}

func (r *repo) UpdateBillPayment(ctx context.Context, db *gorm.DB, billID snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).
		Model(&billingdomain.Bill{}).
		Where("id = ?", billID).
		Updates(fields).Error
}

func (r *repo) ListByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	err := db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("processed_at ASC, id ASC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
