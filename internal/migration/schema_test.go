package migration

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	encounterdomain "github.com/wardbooklabs/wardbook/internal/encounter/domain"
	paymentdomain "github.com/wardbooklabs/wardbook/internal/payment/domain"
	paymentrepo "github.com/wardbooklabs/wardbook/internal/payment/repository"
	reportingrepo "github.com/wardbooklabs/wardbook/internal/reporting/repository"
	"gorm.io/gorm"
)

// openMigratedDB builds the schema from the embedded migration files, not
// from the Go models, so column drift between the two surfaces here.
func openMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	names, err := upMigrationNames()
	require.NoError(t, err)
	sort.Strings(names)

	for _, name := range names {
		content, err := embeddedMigrations.ReadFile(migrationsDir + "/" + name)
		require.NoError(t, err)
		for _, stmt := range strings.Split(string(content), ";") {
			if !executable(stmt) {
				continue
			}
			require.NoError(t, db.Exec(stmt).Error, "%s: %s", name, stmt)
		}
	}
	return db
}

// executable reports whether a split fragment holds anything besides
// whitespace and line comments.
func executable(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		return true
	}
	return false
}

func TestMigratedSchemaAcceptsPaymentRows(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()
	node, err := snowflake.NewNode(9)
	require.NoError(t, err)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	patient := encounterdomain.Patient{
		ID:            node.Generate(),
		MedicalNumber: "MRN-" + node.Generate().String(),
		FirstName:     "Asha",
		LastName:      "Verma",
	}
	require.NoError(t, db.Create(&patient).Error)

	bill := billingdomain.Bill{
		ID:            node.Generate(),
		PatientID:     patient.ID,
		SubtotalCents: 100000,
		TotalCents:    100000,
		PaymentStatus: billingdomain.BillPending,
		PaymentMethod: "cash",
		CreatedBy:     node.Generate(),
		CreatedAt:     now.Add(-time.Hour),
		UpdatedAt:     now.Add(-time.Hour),
	}
	require.NoError(t, db.Create(&bill).Error)

	repo := paymentrepo.Provide()
	txn := &paymentdomain.Transaction{
		ID:              node.Generate(),
		BillID:          bill.ID,
		AmountCents:     40000,
		Method:          "upi",
		ReferenceNumber: "UPI-552-881",
		ReceiptNumber:   "RCPT-" + node.Generate().String(),
		Status:          paymentdomain.TxnCompleted,
		Notes:           "front desk",
		ProcessedBy:     node.Generate(),
		ProcessedAt:     now,
	}
	require.NoError(t, repo.InsertTransaction(ctx, db, txn))

	stored, err := repo.ListByBill(ctx, db, bill.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, int64(40000), stored[0].AmountCents)
	assert.Equal(t, "UPI-552-881", stored[0].ReferenceNumber)
	assert.Equal(t, paymentdomain.TxnCompleted, stored[0].Status)
	assert.Equal(t, "front desk", stored[0].Notes)

	stats, err := reportingrepo.Provide().Stats(ctx, db,
		now.Add(-2*time.Hour), now.AddDate(0, 0, -10), now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(40000), stats.RevenueTodayCents)
	assert.Equal(t, int64(1), stats.PendingBills)
	assert.Equal(t, int64(100000), stats.PendingAmountCents)
}
