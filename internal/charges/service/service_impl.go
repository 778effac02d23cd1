package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/wardbooklabs/wardbook/internal/charges/domain"
	"github.com/wardbooklabs/wardbook/internal/ratecard"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Rates *ratecard.Card
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	rates *ratecard.Card
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("charges.service"),
		repo:  p.Repo,
		rates: p.Rates,
	}
}

func (s *Service) Consultation(ctx context.Context, patientID snowflake.ID, w domain.Window) (domain.Charge, error) {
	count, err := s.repo.CountCompletedVisits(ctx, s.db, patientID, w)
	if err != nil {
		return domain.Charge{}, err
	}
	return domain.Charge{Count: count, TotalCents: count * s.rates.ConsultationCents}, nil
}

func (s *Service) Lab(ctx context.Context, patientID snowflake.ID, w domain.Window) (domain.Charge, error) {
	return s.repo.CompletedLabTests(ctx, s.db, patientID, w)
}

func (s *Service) Medicines(ctx context.Context, patientID snowflake.ID, w domain.Window) (domain.Charge, error) {
	return s.repo.PrescribedMedicines(ctx, s.db, patientID, w)
}

func (s *Service) VitalRecordings(ctx context.Context, patientID snowflake.ID, w domain.Window) (domain.Charge, error) {
	count, err := s.repo.CountVitalRecordings(ctx, s.db, patientID, w)
	if err != nil {
		return domain.Charge{}, err
	}
	return domain.Charge{Count: count, TotalCents: count * s.rates.VitalRecordingCents}, nil
}

func (s *Service) Equipment(ctx context.Context, patientID snowflake.ID, w domain.Window) (domain.Charge, error) {
	return s.repo.EquipmentUsage(ctx, s.db, patientID, w)
}
