// Package domain describes the read-side views the billing desk works
// from: dashboard stats, bill listings and admission rosters. Nothing in
// this package writes.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	encounterdomain "github.com/wardbooklabs/wardbook/internal/encounter/domain"
	paymentdomain "github.com/wardbooklabs/wardbook/internal/payment/domain"
	"github.com/wardbooklabs/wardbook/pkg/db/pagination"
	"gorm.io/gorm"
)

// Stats is the billing dashboard snapshot. Amounts owed count only the
// unpaid remainder of each bill.
type Stats struct {
	PendingBills       int64 `json:"pending_bills"`
	PendingAmountCents int64 `json:"pending_amount_cents"`
	RevenueTodayCents  int64 `json:"revenue_today_cents"`
	RevenueMonthCents  int64 `json:"revenue_month_cents"`
	OverdueBills       int64 `json:"overdue_bills"`
	OverdueAmountCents int64 `json:"overdue_amount_cents"`
}

type BillSummary struct {
	billingdomain.Bill `gorm:"embedded"`
	PatientName        string `json:"patient_name"`
	MedicalNumber      string `json:"medical_number"`
}

type BillDetail struct {
	Bill     billingdomain.Bill          `json:"bill"`
	Patient  encounterdomain.Patient     `json:"patient"`
	Items    []billingdomain.BillItem    `json:"items"`
	Payments []paymentdomain.Transaction `json:"payments"`
}

// ActiveAdmission is one row of the billing desk's admission roster.
type ActiveAdmission struct {
	AdmissionID   snowflake.ID `json:"admission_id"`
	PatientID     snowflake.ID `json:"patient_id"`
	PatientName   string       `json:"patient_name"`
	MedicalNumber string       `json:"medical_number"`
	WardName      string       `json:"ward_name"`
	BedNumber     string       `json:"bed_number"`
	AdmittedAt    time.Time    `json:"admitted_at"`
	Reason        string       `json:"reason"`
	DaysAdmitted  int64        `json:"days_admitted"`
	HasBill       bool         `json:"has_bill"`
}

// ListBillsFilter narrows a bill listing. Unsettled selects every bill
// still owing money, regardless of Status.
type ListBillsFilter struct {
	Status    string
	Unsettled bool
	PatientID *snowflake.ID
	From      *time.Time
	To        *time.Time
	Page      pagination.Pagination
}

type Repository interface {
	Stats(ctx context.Context, db *gorm.DB, todayStart, monthStart, overdueBefore time.Time) (*Stats, error)
	ListBills(ctx context.Context, db *gorm.DB, filter ListBillsFilter) ([]BillSummary, error)
	BillWithPatient(ctx context.Context, db *gorm.DB, billID snowflake.ID) (*billingdomain.Bill, *encounterdomain.Patient, error)
	ActiveAdmissions(ctx context.Context, db *gorm.DB) ([]ActiveAdmission, error)
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	ListBills(ctx context.Context, filter ListBillsFilter) ([]BillSummary, *pagination.PageInfo, error)
	PendingBills(ctx context.Context, page pagination.Pagination) ([]BillSummary, *pagination.PageInfo, error)
	BillDetail(ctx context.Context, billID snowflake.ID) (*BillDetail, error)
	PatientHistory(ctx context.Context, patientID snowflake.ID, page pagination.Pagination) ([]BillSummary, *pagination.PageInfo, error)
	ActiveAdmissions(ctx context.Context) ([]ActiveAdmission, error)
	PatientActiveAdmission(ctx context.Context, patientID snowflake.ID) (*encounterdomain.AdmissionDetail, error)
}
