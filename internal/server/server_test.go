package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardbooklabs/wardbook/internal/authz"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	billingrepo "github.com/wardbooklabs/wardbook/internal/billing/repository"
	billingservice "github.com/wardbooklabs/wardbook/internal/billing/service"
	chargesdomain "github.com/wardbooklabs/wardbook/internal/charges/domain"
	chargesrepo "github.com/wardbooklabs/wardbook/internal/charges/repository"
	chargesservice "github.com/wardbooklabs/wardbook/internal/charges/service"
	"github.com/wardbooklabs/wardbook/internal/clock"
	"github.com/wardbooklabs/wardbook/internal/config"
	encounterdomain "github.com/wardbooklabs/wardbook/internal/encounter/domain"
	encounterrepo "github.com/wardbooklabs/wardbook/internal/encounter/repository"
	"github.com/wardbooklabs/wardbook/internal/invoice"
	paymentdomain "github.com/wardbooklabs/wardbook/internal/payment/domain"
	paymentrepo "github.com/wardbooklabs/wardbook/internal/payment/repository"
	paymentservice "github.com/wardbooklabs/wardbook/internal/payment/service"
	"github.com/wardbooklabs/wardbook/internal/ratecard"
	reportingrepo "github.com/wardbooklabs/wardbook/internal/reporting/repository"
	reportingservice "github.com/wardbooklabs/wardbook/internal/reporting/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	adminKey   = "test-admin-key"
	cashierKey = "test-cashier-key"
)

var testNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

type systemTestClock struct{}

func (systemTestClock) Now(context.Context) time.Time { return testNow }

var _ clock.Clock = systemTestClock{}

type fixture struct {
	db     *gorm.DB
	node   *snowflake.Node
	server *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&encounterdomain.Patient{},
		&encounterdomain.Ward{},
		&encounterdomain.Bed{},
		&encounterdomain.Admission{},
		&chargesdomain.MedicalRecord{},
		&chargesdomain.LabTestCatalog{},
		&chargesdomain.LabOrder{},
		&chargesdomain.LabOrderTest{},
		&chargesdomain.Medicine{},
		&chargesdomain.Prescription{},
		&chargesdomain.VitalSign{},
		&chargesdomain.InventoryTransaction{},
		&billingdomain.Bill{},
		&billingdomain.BillItem{},
		&paymentdomain.Transaction{},
	))

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{Addr: ":0", Mode: "test"},
		Auth: config.AuthConfig{APIKeys: []config.APIKey{
			{Key: adminKey, ActorID: int64(node.Generate()), Name: "desk-admin", Role: "admin"},
			{Key: cashierKey, ActorID: int64(node.Generate()), Name: "cashier-01", Role: "cashier"},
		}},
		Billing: config.BillingConfig{
			OverdueDays: 30,
			Rates: config.RateConfig{
				WardDailyCents:          map[string]int64{"ICU": 500000, "General Ward": 150000},
				ConsultationCents:       50000,
				VitalRecordingCents:     5000,
				EmergencySurchargeCents: 200000,
				TaxBps:                  1800,
			},
		},
	}

	log := zap.NewNop()
	rates := ratecard.New(cfg)
	clk := systemTestClock{}
	encounters := encounterrepo.Provide()
	bills := billingrepo.Provide()
	payments := paymentrepo.Provide()

	charges := chargesservice.New(chargesservice.Params{DB: db, Log: log, Repo: chargesrepo.Provide(), Rates: rates})
	billing := billingservice.New(billingservice.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: bills, Charges: charges, Encounters: encounters, Rates: rates,
	})
	payment := paymentservice.New(paymentservice.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: payments, Encounters: encounters,
	})
	reporting := reportingservice.New(reportingservice.Params{
		DB: db, Log: log, Config: cfg, Clock: clk,
		Repo: reportingrepo.Provide(), Bills: bills, Payments: payments, Encounters: encounters,
	})

	enforcer, err := authz.NewEnforcer()
	require.NoError(t, err)

	srv := NewServer(Params{
		Config:    cfg,
		Log:       log,
		Enforcer:  enforcer,
		Billing:   billing,
		Payments:  payment,
		Reporting: reporting,
		Renderer:  invoice.NewRenderer(),
	})
	return &fixture{db: db, node: node, server: srv}
}

func (f *fixture) request(t *testing.T, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	rec := httptest.NewRecorder()
	f.server.engine.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) seedAdmittedPatient(t *testing.T, serious bool) (encounterdomain.Patient, encounterdomain.Admission) {
	t.Helper()

	patient := encounterdomain.Patient{
		ID:            f.node.Generate(),
		MedicalNumber: "MRN-" + f.node.Generate().String(),
		FirstName:     "Asha",
		LastName:      "Verma",
		IsSeriousCase: serious,
	}
	require.NoError(t, f.db.Create(&patient).Error)

	ward := encounterdomain.Ward{ID: f.node.Generate(), Name: "ICU", Code: "ICU-" + f.node.Generate().String()}
	require.NoError(t, f.db.Create(&ward).Error)
	bed := encounterdomain.Bed{
		ID:        f.node.Generate(),
		WardID:    ward.ID,
		BedNumber: "ICU-01",
		Status:    encounterdomain.BedOccupied,
	}
	require.NoError(t, f.db.Create(&bed).Error)

	adm := encounterdomain.Admission{
		ID:         f.node.Generate(),
		PatientID:  patient.ID,
		DoctorID:   f.node.Generate(),
		BedID:      &bed.ID,
		AdmittedAt: testNow.Add(-47 * time.Hour),
		Reason:     "observation",
		Status:     encounterdomain.AdmissionActive,
	}
	require.NoError(t, f.db.Create(&adm).Error)
	return patient, adm
}

func TestHealthzIsPublic(t *testing.T) {
	f := newFixture(t)
	rec := f.request(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBillingRequiresAPIKey(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/billing/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.request(t, http.MethodGet, "/billing/stats", "wrong-key", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCashierCannotGenerateBills(t *testing.T) {
	f := newFixture(t)
	_, adm := f.seedAdmittedPatient(t, false)

	rec := f.request(t, http.MethodPost, "/billing/ipd/generate", cashierKey, map[string]any{
		"admissionId": adm.ID.String(),
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCashierCanReadBills(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/billing/bills", cashierKey, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCalculateIPDEndpoint(t *testing.T) {
	f := newFixture(t)
	_, adm := f.seedAdmittedPatient(t, true)

	rec := f.request(t, http.MethodPost, "/billing/ipd/calculate", adminKey, map[string]any{
		"admissionId": adm.ID.String(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data billingdomain.Breakdown `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1250000), body.Data.SubtotalCents)
	assert.Equal(t, int64(1475000), body.Data.TotalCents)
}

func TestCalculateIPDRejectsMissingBody(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/billing/ipd/calculate", adminKey, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateThenPayAndDownloadInvoice(t *testing.T) {
	f := newFixture(t)
	_, adm := f.seedAdmittedPatient(t, false)

	rec := f.request(t, http.MethodPost, "/billing/ipd/generate", adminKey, map[string]any{
		"admissionId":   adm.ID.String(),
		"paymentMethod": "cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data billingdomain.GenerateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	billID := created.Data.Bill.ID.String()
	total := created.Data.Bill.TotalCents

	rec = f.request(t, http.MethodPost, fmt.Sprintf("/billing/%s/payment", billID), cashierKey, map[string]any{
		"amountCents": total,
		"method":      "cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.request(t, http.MethodGet, fmt.Sprintf("/billing/%s", billID), adminKey, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(t, http.MethodGet, fmt.Sprintf("/billing/%s/invoice", billID), adminKey, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestPaymentValidation(t *testing.T) {
	f := newFixture(t)
	patient, _ := f.seedAdmittedPatient(t, false)

	bill := billingdomain.Bill{
		ID:            f.node.Generate(),
		PatientID:     patient.ID,
		TotalCents:    10000,
		PaymentStatus: billingdomain.BillPending,
		PaymentMethod: "cash",
		CreatedBy:     f.node.Generate(),
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
	require.NoError(t, f.db.Create(&bill).Error)

	rec := f.request(t, http.MethodPost, fmt.Sprintf("/billing/%s/payment", bill.ID), cashierKey, map[string]any{
		"amountCents": -100,
		"method":      "cash",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodPost, fmt.Sprintf("/billing/%s/payment", f.node.Generate()), cashierKey, map[string]any{
		"amountCents": 100,
		"method":      "cash",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateBillValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPatch, "/billing/not-an-id", adminKey, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodPatch, fmt.Sprintf("/billing/%s", f.node.Generate()), adminKey, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
