package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

var (
	ErrBillNotFound       = errors.New("bill not found")
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrInvalidDischarge   = errors.New("discharge date precedes admission date")
	ErrInvalidDiscount    = errors.New("discount percent out of range")
	ErrBillHasPayments    = errors.New("bill has payment transactions")
	ErrNoUpdatableFields  = errors.New("no updatable field present")
	ErrMissingActor       = errors.New("authenticated actor missing from context")
	ErrAdmissionInactive  = errors.New("admission is not active")
	ErrInvalidBillStatus  = errors.New("invalid payment status")
	ErrInvalidPaymentMeth = errors.New("payment method is required")
)

type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPartial BillStatus = "partial"
	BillPaid    BillStatus = "paid"
)

func (s BillStatus) Valid() bool {
	switch s {
	case BillPending, BillPartial, BillPaid:
		return true
	}
	return false
}

// DeriveStatus is the single source of truth for a bill's payment status.
func DeriveStatus(paidCents, totalCents int64) BillStatus {
	switch {
	case paidCents <= 0:
		return BillPending
	case paidCents < totalCents:
		return BillPartial
	default:
		return BillPaid
	}
}

type ItemCategory string

const (
	ItemRoom         ItemCategory = "ROOM"
	ItemConsultation ItemCategory = "CONSULTATION"
	ItemLabTest      ItemCategory = "LAB_TEST"
	ItemMedicine     ItemCategory = "MEDICINE"
	ItemNursing      ItemCategory = "NURSING"
	ItemEquipment    ItemCategory = "EQUIPMENT"
	ItemTax          ItemCategory = "TAX"
	ItemDiscount     ItemCategory = "DISCOUNT"
)

type Bill struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	PatientID     snowflake.ID      `gorm:"not null;index" json:"patient_id"`
	AdmissionID   *snowflake.ID     `gorm:"index" json:"admission_id,omitempty"`
	SubtotalCents int64             `gorm:"not null" json:"subtotal_cents"`
	TaxCents      int64             `gorm:"not null" json:"tax_cents"`
	DiscountCents int64             `gorm:"not null" json:"discount_cents"`
	TotalCents    int64             `gorm:"not null" json:"total_cents"`
	PaidCents     int64             `gorm:"not null" json:"paid_cents"`
	PaymentStatus BillStatus        `gorm:"type:text;not null" json:"payment_status"`
	PaymentMethod string            `gorm:"type:text;not null" json:"payment_method"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedBy     snowflake.ID      `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (Bill) TableName() string { return "bills" }

type BillItem struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	BillID         snowflake.ID `gorm:"not null;index" json:"bill_id"`
	Category       ItemCategory `gorm:"type:text;not null" json:"category"`
	Description    string       `gorm:"type:text;not null" json:"description"`
	Quantity       int64        `gorm:"not null" json:"quantity"`
	UnitPriceCents int64        `gorm:"not null" json:"unit_price_cents"`
	LineTotalCents int64        `gorm:"not null" json:"line_total_cents"`
}

func (BillItem) TableName() string { return "bill_items" }
