package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	"github.com/wardbooklabs/wardbook/internal/clock"
	"github.com/wardbooklabs/wardbook/internal/config"
	encounterdomain "github.com/wardbooklabs/wardbook/internal/encounter/domain"
	paymentdomain "github.com/wardbooklabs/wardbook/internal/payment/domain"
	"github.com/wardbooklabs/wardbook/internal/reporting/domain"
	"github.com/wardbooklabs/wardbook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Config     *config.Config
	Clock      clock.Clock
	Repo       domain.Repository
	Bills      billingdomain.Repository
	Payments   paymentdomain.Repository
	Encounters encounterdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	repo        domain.Repository
	bills       billingdomain.Repository
	payments    paymentdomain.Repository
	encounters  encounterdomain.Repository
	overdueDays int
}

func New(p Params) domain.Service {
	overdue := p.Config.Billing.OverdueDays
	if overdue <= 0 {
		overdue = 30
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("reporting.service"),
		clock:       p.Clock,
		repo:        p.Repo,
		bills:       p.Bills,
		payments:    p.Payments,
		encounters:  p.Encounters,
		overdueDays: overdue,
	}
}

func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	now := s.clock.Now(ctx)
	y, m, d := now.Date()
	todayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	overdueBefore := now.AddDate(0, 0, -s.overdueDays)

	return s.repo.Stats(ctx, s.db, todayStart, monthStart, overdueBefore)
}

func (s *Service) ListBills(ctx context.Context, filter domain.ListBillsFilter) ([]domain.BillSummary, *pagination.PageInfo, error) {
	if filter.Status != "" && !billingdomain.BillStatus(filter.Status).Valid() {
		return nil, nil, billingdomain.ErrInvalidBillStatus
	}

	rows, err := s.repo.ListBills(ctx, s.db, filter)
	if err != nil {
		return nil, nil, err
	}
	return paginate(rows, filter.Page.PageSize)
}

// PendingBills lists every bill still owing money, so a partially-paid
// bill stays on the desk until it settles.
func (s *Service) PendingBills(ctx context.Context, page pagination.Pagination) ([]domain.BillSummary, *pagination.PageInfo, error) {
	return s.ListBills(ctx, domain.ListBillsFilter{
		Unsettled: true,
		Page:      page,
	})
}

func (s *Service) PatientHistory(ctx context.Context, patientID snowflake.ID, page pagination.Pagination) ([]domain.BillSummary, *pagination.PageInfo, error) {
	if _, err := s.encounters.FindPatient(ctx, s.db, patientID); err != nil {
		return nil, nil, err
	}
	return s.ListBills(ctx, domain.ListBillsFilter{
		PatientID: &patientID,
		Page:      page,
	})
}

func (s *Service) BillDetail(ctx context.Context, billID snowflake.ID) (*domain.BillDetail, error) {
	bill, patient, err := s.repo.BillWithPatient(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}

	items, err := s.bills.ListItemsByBill(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}
	txns, err := s.payments.ListByBill(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}

	return &domain.BillDetail{
		Bill:     *bill,
		Patient:  *patient,
		Items:    items,
		Payments: txns,
	}, nil
}

func (s *Service) ActiveAdmissions(ctx context.Context) ([]domain.ActiveAdmission, error) {
	rows, err := s.repo.ActiveAdmissions(ctx, s.db)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	for i := range rows {
		days := int64(now.Sub(rows[i].AdmittedAt).Hours() / 24)
		if days < 1 {
			days = 1
		}
		rows[i].DaysAdmitted = days
	}
	return rows, nil
}

func (s *Service) PatientActiveAdmission(ctx context.Context, patientID snowflake.ID) (*encounterdomain.AdmissionDetail, error) {
	return s.encounters.FindActiveAdmissionByPatient(ctx, s.db, patientID)
}

// paginate truncates an over-fetched page and derives the next-page token.
func paginate(rows []domain.BillSummary, pageSize int) ([]domain.BillSummary, *pagination.PageInfo, error) {
	info := pagination.BuildCursorPageInfo(rows, pageSize, func(row domain.BillSummary) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        row.ID.String(),
			CreatedAt: row.CreatedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageSize > 0 && len(rows) > pageSize {
		rows = rows[:pageSize]
	}
	return rows, info, nil
}
