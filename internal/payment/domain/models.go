package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidAmount = errors.New("payment amount must be positive")
)

// TxnCompleted is the status every applied payment carries. Other values
// are reserved for refund and reversal flows.
const TxnCompleted = "completed"

// Transaction is one applied payment. Rows are append-only; corrections are
// new transactions, never edits.
type Transaction struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	BillID          snowflake.ID `gorm:"not null;index" json:"bill_id"`
	AmountCents     int64        `gorm:"not null" json:"amount_cents"`
	Method          string       `gorm:"type:text;not null" json:"method"`
	ReferenceNumber string       `gorm:"type:text;not null" json:"reference_number"`
	ReceiptNumber   string       `gorm:"type:text;not null;uniqueIndex" json:"receipt_number"`
	Status          string       `gorm:"type:text;not null" json:"status"`
	Notes           string       `gorm:"type:text" json:"notes"`
	ProcessedBy     snowflake.ID `gorm:"not null" json:"processed_by"`
	ProcessedAt     time.Time    `gorm:"not null" json:"processed_at"`
}

func (Transaction) TableName() string { return "payment_transactions" }

type ProcessRequest struct {
	AmountCents     int64  `json:"amountCents" binding:"required"`
	Method          string `json:"method" binding:"required"`
	ReferenceNumber string `json:"referenceNumber"`
	Notes           string `json:"notes"`
}

type OverrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ProcessResult struct {
	Transaction        Transaction `json:"transaction"`
	PaidCents          int64       `json:"paid_cents"`
	DueCents           int64       `json:"due_cents"`
	PaymentStatus      string      `json:"payment_status"`
	DischargeTriggered bool        `json:"discharge_triggered"`
}
