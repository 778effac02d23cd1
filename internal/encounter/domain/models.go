// Package domain holds the admission-side records billing collaborates
// with. Billing reads them freely; its only writes are the discharge and
// bed release that ride on a fully paid bill.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrAdmissionNotFound = errors.New("admission not found")
)

type AdmissionStatus string

const (
	AdmissionActive     AdmissionStatus = "active"
	AdmissionDischarged AdmissionStatus = "discharged"
)

type BedStatus string

const (
	BedAvailable   BedStatus = "available"
	BedOccupied    BedStatus = "occupied"
	BedMaintenance BedStatus = "maintenance"
	BedReserved    BedStatus = "reserved"
)

type Patient struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	MedicalNumber string       `gorm:"type:text;not null;uniqueIndex" json:"medical_number"`
	FirstName     string       `gorm:"type:text;not null" json:"first_name"`
	LastName      string       `gorm:"type:text;not null" json:"last_name"`
	IsSeriousCase bool         `gorm:"not null" json:"is_serious_case"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Patient) TableName() string { return "patients" }

func (p Patient) FullName() string { return p.FirstName + " " + p.LastName }

type Ward struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Name string       `gorm:"type:text;not null" json:"name"`
	Code string       `gorm:"type:text;not null;uniqueIndex" json:"code"`
}

func (Ward) TableName() string { return "wards" }

type Bed struct {
	ID               snowflake.ID  `gorm:"primaryKey" json:"id"`
	WardID           snowflake.ID  `gorm:"not null;index" json:"ward_id"`
	BedNumber        string        `gorm:"type:text;not null" json:"bed_number"`
	Status           BedStatus     `gorm:"type:text;not null" json:"status"`
	CurrentPatientID *snowflake.ID `json:"current_patient_id,omitempty"`
}

func (Bed) TableName() string { return "beds" }

type Admission struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	PatientID     snowflake.ID    `gorm:"not null;index" json:"patient_id"`
	DoctorID      snowflake.ID    `gorm:"not null" json:"doctor_id"`
	BedID         *snowflake.ID   `json:"bed_id,omitempty"`
	AdmittedAt    time.Time       `gorm:"not null" json:"admitted_at"`
	Reason        string          `gorm:"type:text;not null" json:"reason"`
	Status        AdmissionStatus `gorm:"type:text;not null" json:"status"`
	DischargedAt  *time.Time      `json:"discharged_at,omitempty"`
	DischargeNote *string         `json:"discharge_note,omitempty"`
}

func (Admission) TableName() string { return "admissions" }

// AdmissionDetail is the admission joined to its patient and, when a bed is
// assigned, the bed and ward. Bed and ward stay nil for bed-less admissions.
type AdmissionDetail struct {
	Admission Admission `json:"admission"`
	Patient   Patient   `json:"patient"`
	Bed       *Bed      `json:"bed,omitempty"`
	Ward      *Ward     `json:"ward,omitempty"`
}
