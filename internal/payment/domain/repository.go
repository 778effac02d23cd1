package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	"gorm.io/gorm"
)

type Repository interface {
	// FindBillForUpdate loads the bill with a row lock on backends that
	// support one, so concurrent payments serialize on the same bill.
	FindBillForUpdate(ctx context.Context, db *gorm.DB, billID snowflake.ID) (*billingdomain.Bill, error)
	InsertTransaction(ctx context.Context, db *gorm.DB, txn *Transaction) error
	UpdateBillPayment(ctx context.Context, db *gorm.DB, billID snowflake.ID, fields map[string]any) error
	ListByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]Transaction, error)
}

type Service interface {
	Process(ctx context.Context, billID snowflake.ID, req ProcessRequest) (*ProcessResult, error)
	OverrideStatus(ctx context.Context, billID snowflake.ID, req OverrideStatusRequest) (*billingdomain.Bill, error)
}
