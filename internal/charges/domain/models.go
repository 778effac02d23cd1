// Package domain describes the collaborator records the charge calculators
// aggregate over. Billing never mutates any of these tables.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	LabOrderCompleted = "COMPLETED"

	InventoryTxnUsage = "usage"
)

// Charge is one calculator's output: how many chargeable units matched and
// what they cost. Zero matches is a valid result, not an error.
type Charge struct {
	Count      int64 `json:"count"`
	TotalCents int64 `json:"total_cents"`
}

// Window bounds a charge aggregation. Either side may be open.
type Window struct {
	From *time.Time
	To   *time.Time
}

type MedicalRecord struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	PatientID snowflake.ID `gorm:"not null;index:idx_medical_records_patient"`
	DoctorID  snowflake.ID `gorm:"not null"`
	VisitType string       `gorm:"type:text;not null"`
	Status    string       `gorm:"type:text;not null"`
	VisitedAt time.Time    `gorm:"not null;index:idx_medical_records_patient"`
}

func (MedicalRecord) TableName() string { return "medical_records" }

type LabTestCatalog struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null;uniqueIndex"`
	CostCents int64        `gorm:"not null"`
}

func (LabTestCatalog) TableName() string { return "lab_test_catalog" }

type LabOrder struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	PatientID snowflake.ID `gorm:"not null;index"`
	Status    string       `gorm:"type:text;not null"`
	OrderedAt time.Time    `gorm:"not null"`
}

func (LabOrder) TableName() string { return "lab_orders" }

type LabOrderTest struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	LabOrderID snowflake.ID `gorm:"not null;index"`
	CatalogID  snowflake.ID `gorm:"not null"`
}

func (LabOrderTest) TableName() string { return "lab_order_tests" }

type Medicine struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	Name           string       `gorm:"type:text;not null"`
	UnitPriceCents int64        `gorm:"not null"`
	StockQuantity  int64        `gorm:"not null"`
}

func (Medicine) TableName() string { return "medicines" }

type Prescription struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	PatientID      snowflake.ID `gorm:"not null;index"`
	MedicationName string       `gorm:"type:text;not null"`
	Quantity       int64        `gorm:"not null"`
	PrescribedAt   time.Time    `gorm:"not null"`
}

func (Prescription) TableName() string { return "prescriptions" }

type VitalSign struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	PatientID  snowflake.ID `gorm:"not null;index"`
	RecordedAt time.Time    `gorm:"not null"`
}

func (VitalSign) TableName() string { return "vital_signs" }

type InventoryTransaction struct {
	ID              snowflake.ID  `gorm:"primaryKey"`
	ItemName        string        `gorm:"type:text;not null"`
	TxnType         string        `gorm:"type:text;not null"`
	QuantityChanged int64         `gorm:"not null"`
	UnitPriceCents  int64         `gorm:"not null"`
	Reason          string        `gorm:"type:text;not null"`
	PatientID       *snowflake.ID `gorm:"index"`
	OccurredAt      time.Time     `gorm:"not null"`
}

func (InventoryTransaction) TableName() string { return "inventory_transactions" }
