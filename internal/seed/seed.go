// Package seed loads a small demo dataset so a fresh install has wards,
// beds, patients and clinical activity to bill against.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	chargesdomain "github.com/wardbooklabs/wardbook/internal/charges/domain"
	encounterdomain "github.com/wardbooklabs/wardbook/internal/encounter/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run inserts the demo dataset. A database that already has patients is
// left untouched.
func Run(ctx context.Context, db *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	var patients int64
	if err := db.WithContext(ctx).Table("patients").Count(&patients).Error; err != nil {
		return err
	}
	if patients > 0 {
		log.Info("seed skipped, patients already present", zap.Int64("count", patients))
		return nil
	}

	now := time.Now().UTC()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		general := encounterdomain.Ward{ID: node.Generate(), Name: "General Ward", Code: "GEN"}
		icu := encounterdomain.Ward{ID: node.Generate(), Name: "ICU", Code: "ICU"}
		if err := tx.Create([]*encounterdomain.Ward{&general, &icu}).Error; err != nil {
			return err
		}

		patientA := encounterdomain.Patient{
			ID:            node.Generate(),
			MedicalNumber: "MRN-1001",
			FirstName:     "Asha",
			LastName:      "Verma",
			IsSeriousCase: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		patientB := encounterdomain.Patient{
			ID:            node.Generate(),
			MedicalNumber: "MRN-1002",
			FirstName:     "Ravi",
			LastName:      "Nair",
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create([]*encounterdomain.Patient{&patientA, &patientB}).Error; err != nil {
			return err
		}

		icuBed := encounterdomain.Bed{
			ID:               node.Generate(),
			WardID:           icu.ID,
			BedNumber:        "ICU-01",
			Status:           encounterdomain.BedOccupied,
			CurrentPatientID: &patientA.ID,
		}
		spareBed := encounterdomain.Bed{
			ID:        node.Generate(),
			WardID:    general.ID,
			BedNumber: "GEN-01",
			Status:    encounterdomain.BedAvailable,
		}
		if err := tx.Create([]*encounterdomain.Bed{&icuBed, &spareBed}).Error; err != nil {
			return err
		}

		doctorID := node.Generate()
		admission := encounterdomain.Admission{
			ID:         node.Generate(),
			PatientID:  patientA.ID,
			DoctorID:   doctorID,
			BedID:      &icuBed.ID,
			AdmittedAt: now.Add(-48 * time.Hour),
			Reason:     "acute respiratory distress",
			Status:     encounterdomain.AdmissionActive,
		}
		if err := tx.Create(&admission).Error; err != nil {
			return err
		}

		visits := []chargesdomain.MedicalRecord{
			{
				ID:        node.Generate(),
				PatientID: patientA.ID,
				DoctorID:  doctorID,
				VisitType: "ipd",
				Status:    "completed",
				VisitedAt: now.Add(-40 * time.Hour),
			},
			{
				ID:        node.Generate(),
				PatientID: patientB.ID,
				DoctorID:  doctorID,
				VisitType: "opd",
				Status:    "completed",
				VisitedAt: now.Add(-3 * time.Hour),
			},
		}
		if err := tx.Create(&visits).Error; err != nil {
			return err
		}

		cbc := chargesdomain.LabTestCatalog{ID: node.Generate(), Name: "Complete Blood Count", CostCents: 30000}
		if err := tx.Create(&cbc).Error; err != nil {
			return err
		}
		order := chargesdomain.LabOrder{
			ID:        node.Generate(),
			PatientID: patientB.ID,
			Status:    chargesdomain.LabOrderCompleted,
			OrderedAt: now.Add(-2 * time.Hour),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := tx.Create(&chargesdomain.LabOrderTest{
			ID:         node.Generate(),
			LabOrderID: order.ID,
			CatalogID:  cbc.ID,
		}).Error; err != nil {
			return err
		}

		paracetamol := chargesdomain.Medicine{
			ID:             node.Generate(),
			Name:           "Paracetamol 500mg",
			UnitPriceCents: 250,
			StockQuantity:  500,
		}
		if err := tx.Create(&paracetamol).Error; err != nil {
			return err
		}
		if err := tx.Create(&chargesdomain.Prescription{
			ID:             node.Generate(),
			PatientID:      patientA.ID,
			MedicationName: "Paracetamol 500mg",
			Quantity:       10,
			PrescribedAt:   now.Add(-30 * time.Hour),
		}).Error; err != nil {
			return err
		}

		vitals := []chargesdomain.VitalSign{
			{ID: node.Generate(), PatientID: patientA.ID, RecordedAt: now.Add(-36 * time.Hour)},
			{ID: node.Generate(), PatientID: patientA.ID, RecordedAt: now.Add(-12 * time.Hour)},
		}
		if err := tx.Create(&vitals).Error; err != nil {
			return err
		}

		if err := tx.Create(&chargesdomain.InventoryTransaction{
			ID:              node.Generate(),
			ItemName:        "Oxygen mask",
			TxnType:         chargesdomain.InventoryTxnUsage,
			QuantityChanged: -1,
			UnitPriceCents:  15000,
			Reason:          "ward usage",
			PatientID:       &patientA.ID,
			OccurredAt:      now.Add(-36 * time.Hour),
		}).Error; err != nil {
			return err
		}

		log.Info("seed data inserted",
			zap.String("admitted_patient", patientA.MedicalNumber),
			zap.String("outpatient", patientB.MedicalNumber),
		)
		return nil
	})
}
