package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardbooklabs/wardbook/internal/charges/domain"
	"gorm.io/gorm"
)

var chargeAt = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.MedicalRecord{},
		&domain.LabTestCatalog{},
		&domain.LabOrder{},
		&domain.LabOrderTest{},
		&domain.Medicine{},
		&domain.Prescription{},
		&domain.VitalSign{},
		&domain.InventoryTransaction{},
	))
	return db
}

func TestZeroActivityYieldsZeroCharges(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	node, err := snowflake.NewNode(6)
	require.NoError(t, err)
	patientID := node.Generate()
	ctx := context.Background()

	count, err := r.CountCompletedVisits(ctx, db, patientID, domain.Window{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	lab, err := r.CompletedLabTests(ctx, db, patientID, domain.Window{})
	require.NoError(t, err)
	assert.Equal(t, domain.Charge{}, lab)

	meds, err := r.PrescribedMedicines(ctx, db, patientID, domain.Window{})
	require.NoError(t, err)
	assert.Equal(t, domain.Charge{}, meds)

	equip, err := r.EquipmentUsage(ctx, db, patientID, domain.Window{})
	require.NoError(t, err)
	assert.Equal(t, domain.Charge{}, equip)
}

func TestPrescribedMedicinesMatchesNameCaseInsensitively(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	node, err := snowflake.NewNode(6)
	require.NoError(t, err)
	patientID := node.Generate()

	require.NoError(t, db.Create(&domain.Medicine{
		ID:             node.Generate(),
		Name:           "Paracetamol 500mg",
		UnitPriceCents: 250,
		StockQuantity:  100,
	}).Error)
	require.NoError(t, db.Create(&domain.Prescription{
		ID:             node.Generate(),
		PatientID:      patientID,
		MedicationName: "PARACETAMOL 500MG",
		Quantity:       10,
		PrescribedAt:   chargeAt,
	}).Error)
	// Unknown medication still counts as a prescription at zero cost.
	require.NoError(t, db.Create(&domain.Prescription{
		ID:             node.Generate(),
		PatientID:      patientID,
		MedicationName: "Unstocked Syrup",
		Quantity:       1,
		PrescribedAt:   chargeAt,
	}).Error)

	charge, err := r.PrescribedMedicines(context.Background(), db, patientID, domain.Window{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), charge.Count)
	assert.Equal(t, int64(2500), charge.TotalCents)
}

func TestCompletedLabTestsIgnoresPendingOrders(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	node, err := snowflake.NewNode(6)
	require.NoError(t, err)
	patientID := node.Generate()

	catalog := domain.LabTestCatalog{ID: node.Generate(), Name: "CBC", CostCents: 30000}
	require.NoError(t, db.Create(&catalog).Error)

	done := domain.LabOrder{ID: node.Generate(), PatientID: patientID, Status: domain.LabOrderCompleted, OrderedAt: chargeAt}
	pending := domain.LabOrder{ID: node.Generate(), PatientID: patientID, Status: "PENDING", OrderedAt: chargeAt}
	require.NoError(t, db.Create([]*domain.LabOrder{&done, &pending}).Error)

	require.NoError(t, db.Create([]*domain.LabOrderTest{
		{ID: node.Generate(), LabOrderID: done.ID, CatalogID: catalog.ID},
		{ID: node.Generate(), LabOrderID: pending.ID, CatalogID: catalog.ID},
	}).Error)

	charge, err := r.CompletedLabTests(context.Background(), db, patientID, domain.Window{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), charge.Count)
	assert.Equal(t, int64(30000), charge.TotalCents)
}

func TestEquipmentUsageRequiresPatientLinkAndUsageType(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	node, err := snowflake.NewNode(6)
	require.NoError(t, err)
	patientID := node.Generate()
	otherID := node.Generate()

	rows := []domain.InventoryTransaction{
		{ID: node.Generate(), ItemName: "Oxygen mask", TxnType: domain.InventoryTxnUsage, QuantityChanged: -2, UnitPriceCents: 15000, Reason: "ward usage", PatientID: &patientID, OccurredAt: chargeAt},
		{ID: node.Generate(), ItemName: "Oxygen mask", TxnType: "restock", QuantityChanged: 10, UnitPriceCents: 15000, Reason: "restock", PatientID: &patientID, OccurredAt: chargeAt},
		{ID: node.Generate(), ItemName: "Syringe", TxnType: domain.InventoryTxnUsage, QuantityChanged: -1, UnitPriceCents: 500, Reason: "ward usage", PatientID: &otherID, OccurredAt: chargeAt},
		{ID: node.Generate(), ItemName: "Gauze", TxnType: domain.InventoryTxnUsage, QuantityChanged: -1, UnitPriceCents: 800, Reason: "ward usage", OccurredAt: chargeAt},
	}
	require.NoError(t, db.Create(&rows).Error)

	charge, err := r.EquipmentUsage(context.Background(), db, patientID, domain.Window{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), charge.Count)
	assert.Equal(t, int64(30000), charge.TotalCents)
}

func TestWindowBoundsAreInclusive(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	node, err := snowflake.NewNode(6)
	require.NoError(t, err)
	patientID := node.Generate()

	times := []time.Time{
		chargeAt.Add(-time.Hour),
		chargeAt,
		chargeAt.Add(time.Hour),
	}
	for _, at := range times {
		require.NoError(t, db.Create(&domain.VitalSign{
			ID:         node.Generate(),
			PatientID:  patientID,
			RecordedAt: at,
		}).Error)
	}

	from := chargeAt
	to := chargeAt.Add(time.Hour)
	count, err := r.CountVitalRecordings(context.Background(), db, patientID, domain.Window{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
