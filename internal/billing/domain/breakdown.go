package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	chargesdomain "github.com/wardbooklabs/wardbook/internal/charges/domain"
)

// RoomBreakdown is nil on breakdowns for episodes without an assigned bed;
// its presence is exactly the "room charge applies" signal.
type RoomBreakdown struct {
	Ward           string `json:"ward"`
	BedNumber      string `json:"bed_number"`
	Days           int64  `json:"days"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	TotalCents     int64  `json:"total_cents"`
}

type NursingBreakdown struct {
	VitalCount int64 `json:"vital_count"`
	Days       int64 `json:"days"`
	TotalCents int64 `json:"total_cents"`
}

// Breakdown is the in-memory result of a preview or the charge basis of a
// generate. It is never persisted.
type Breakdown struct {
	PatientID   snowflake.ID  `json:"patient_id"`
	PatientName string        `json:"patient_name"`
	AdmissionID *snowflake.ID `json:"admission_id,omitempty"`
	PeriodStart time.Time     `json:"period_start"`
	PeriodEnd   time.Time     `json:"period_end"`

	Room         *RoomBreakdown       `json:"room,omitempty"`
	Consultation chargesdomain.Charge `json:"consultation"`
	Lab          chargesdomain.Charge `json:"lab"`
	Medicines    chargesdomain.Charge `json:"medicines"`
	Nursing      NursingBreakdown     `json:"nursing"`
	Equipment    chargesdomain.Charge `json:"equipment"`

	SeriousCase    bool  `json:"serious_case"`
	EmergencyCents int64 `json:"emergency_cents"`

	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
}

type CalculateIPDRequest struct {
	AdmissionID   string     `json:"admissionId" binding:"required"`
	DischargeDate *time.Time `json:"dischargeDate"`
}

type GenerateIPDRequest struct {
	AdmissionID     string     `json:"admissionId" binding:"required"`
	DischargeDate   *time.Time `json:"dischargeDate"`
	DiscountPercent float64    `json:"discount"`
	PaymentMethod   string     `json:"paymentMethod"`
}

type CalculateOPDRequest struct {
	PatientID string     `json:"patientId" binding:"required"`
	From      *time.Time `json:"from"`
	To        *time.Time `json:"to"`
}

type GenerateOPDRequest struct {
	PatientID       string     `json:"patientId" binding:"required"`
	From            *time.Time `json:"from"`
	To              *time.Time `json:"to"`
	DiscountPercent float64    `json:"discount"`
	PaymentMethod   string     `json:"paymentMethod"`
}

type UpdateBillRequest struct {
	DiscountPercent *float64 `json:"discount"`
	PaymentMethod   *string  `json:"payment_method"`
	PaymentStatus   *string  `json:"payment_status"`
}

type GenerateResult struct {
	Bill      Bill      `json:"bill"`
	Items     []BillItem `json:"items"`
	Breakdown Breakdown `json:"breakdown"`
}
