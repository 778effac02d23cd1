package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertBill(ctx context.Context, db *gorm.DB, bill *Bill) error
	InsertItems(ctx context.Context, db *gorm.DB, items []BillItem) error
	FindBillByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	ListItemsByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]BillItem, error)
	UpdateBillFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	DeleteBill(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	CountPaymentsByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) (int64, error)
}

type Service interface {
	CalculateIPD(ctx context.Context, req CalculateIPDRequest) (*Breakdown, error)
	GenerateIPD(ctx context.Context, req GenerateIPDRequest) (*GenerateResult, error)
	CalculateOPD(ctx context.Context, req CalculateOPDRequest) (*Breakdown, error)
	GenerateOPD(ctx context.Context, req GenerateOPDRequest) (*GenerateResult, error)

	UpdateBill(ctx context.Context, billID snowflake.ID, req UpdateBillRequest) (*Bill, error)
	DeleteBill(ctx context.Context, billID snowflake.ID) error
}
