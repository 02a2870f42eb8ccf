package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/sirupsen/logrus"
)

// MaxHorizonDays caps the horizon a caller may request
const MaxHorizonDays = 366

// ErrInvalidHorizon is returned for a requested horizon outside 1..MaxHorizonDays
var ErrInvalidHorizon = errors.New("invalid horizon")

// Source supplies the obligations, debts and balance of a user
type Source interface {
	ListRecurringItems(ctx context.Context, userID int64) ([]models.RecurringItem, error)
	ListDebts(ctx context.Context, userID int64, statuses ...string) ([]models.Debt, error)
	AccountBalance(ctx context.Context, userID int64) (float64, error)
	MonthNet(ctx context.Context, userID int64, since time.Time) (float64, error)
}

// Snapshot is everything the engine needs for one run
type Snapshot struct {
	StartingBalance float64
	AsOf            time.Time
	HorizonDays     int
	Obligations     []forecast.RecurringObligation
	Debts           []forecast.DebtInstallment
}

// Service handles business logic
type Service struct {
	repo   Source
	log    *logrus.Logger
	config *config.Config
	cal    forecast.Calendar
	now    func() time.Time
}

// NewService initializes a new service
func NewService(repo Source, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		log:    log,
		config: cfg,
		cal:    forecast.NewCalendar(cfg.Location),
		now:    time.Now,
	}
}

// WithClock replaces the time source, for tests and replays
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Snapshot loads the current obligations, active debts and starting balance
// of a user. days == 0 selects the configured horizon.
func (s *Service) Snapshot(ctx context.Context, userID int64, days int) (*Snapshot, error) {
	if days == 0 {
		days = s.config.HorizonDays
	}
	if days < 0 || days > MaxHorizonDays {
		return nil, fmt.Errorf("%w: %d days (allowed 1..%d)", ErrInvalidHorizon, days, MaxHorizonDays)
	}

	items, err := s.repo.ListRecurringItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	debts, err := s.repo.ListDebts(ctx, userID, forecast.DebtActive)
	if err != nil {
		return nil, err
	}

	asOf := s.cal.Midday(s.now())
	balance, err := s.startingBalance(ctx, userID, asOf)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		StartingBalance: balance,
		AsOf:            asOf,
		HorizonDays:     days,
		Obligations:     ObligationsFromItems(s.cal, items),
		Debts:           InstallmentsFromDebts(s.cal, debts),
	}, nil
}

func (s *Service) startingBalance(ctx context.Context, userID int64, asOf time.Time) (float64, error) {
	if s.config.BalanceSource == config.BalanceFromMonthNet {
		monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
		return s.repo.MonthNet(ctx, userID, monthStart)
	}
	return s.repo.AccountBalance(ctx, userID)
}

// Forecast projects the balance of a user over the next days
func (s *Service) Forecast(ctx context.Context, userID int64, days int) (*forecast.Projection, error) {
	_, p, err := s.project(ctx, userID, days)
	return p, err
}

func (s *Service) project(ctx context.Context, userID int64, days int) (*Snapshot, *forecast.Projection, error) {
	started := time.Now()
	snap, err := s.Snapshot(ctx, userID, days)
	if err != nil {
		metrics.ProjectionsTotal.WithLabelValues("user", "error").Inc()
		return nil, nil, err
	}
	p, err := s.Run(snap)
	if err != nil {
		metrics.ProjectionsTotal.WithLabelValues("user", "error").Inc()
		s.log.WithError(err).WithField("user_id", userID).Error("Projection failed")
		return nil, nil, err
	}
	metrics.ProjectionsTotal.WithLabelValues("user", "ok").Inc()
	metrics.ProjectionDuration.Observe(time.Since(started).Seconds())
	metrics.ProjectionEvents.Observe(float64(len(p.Events)))

	s.log.WithFields(logrus.Fields{
		"user_id":     userID,
		"horizon":     p.HorizonDays,
		"obligations": len(snap.Obligations),
		"debts":       len(snap.Debts),
		"events":      len(p.Events),
	}).Debug("Projection computed")
	return snap, p, nil
}

// Run projects an already loaded snapshot
func (s *Service) Run(snap *Snapshot) (*forecast.Projection, error) {
	return forecast.Project(s.cal, snap.StartingBalance, snap.Obligations, snap.Debts, snap.AsOf, snap.HorizonDays)
}

// Summary projects and aggregates in one call, including the debt outlook
// of the same snapshot
func (s *Service) Summary(ctx context.Context, userID int64, days int) (*models.SummaryResponse, error) {
	snap, p, err := s.project(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	return s.summarize(snap, p), nil
}

func (s *Service) summarize(snap *Snapshot, p *forecast.Projection) *models.SummaryResponse {
	resp := ToSummaryResponse(forecast.Summarize(p))
	resp.Debts = ToDebtOutlook(forecast.SummarizeDebts(s.cal, snap.Debts, snap.AsOf))
	return resp
}

// Daily returns the closing balance of every day in the horizon
func (s *Service) Daily(ctx context.Context, userID int64, days int) (*models.BalanceForecast, error) {
	p, err := s.Forecast(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	return ToBalanceForecast(p, forecast.DailyBalances(s.cal, p)), nil
}

// Debts summarizes the active debts of a user
func (s *Service) Debts(ctx context.Context, userID int64) (*models.DebtOutlook, error) {
	debts, err := s.repo.ListDebts(ctx, userID, forecast.DebtActive)
	if err != nil {
		return nil, err
	}
	outlook := forecast.SummarizeDebts(s.cal, InstallmentsFromDebts(s.cal, debts), s.now())
	return ToDebtOutlook(outlook), nil
}

// Preview projects a caller-supplied snapshot without touching storage
func (s *Service) Preview(in models.Snapshot) (*forecast.Projection, error) {
	_, p, err := s.preview(in)
	return p, err
}

// PreviewSummary is Summary for a caller-supplied snapshot
func (s *Service) PreviewSummary(in models.Snapshot) (*forecast.Projection, *models.SummaryResponse, error) {
	snap, p, err := s.preview(in)
	if err != nil {
		return nil, nil, err
	}
	return p, s.summarize(snap, p), nil
}

func (s *Service) preview(in models.Snapshot) (*Snapshot, *forecast.Projection, error) {
	snap, err := ParseSnapshot(s.cal, in, s.now(), s.config.HorizonDays)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.Run(snap)
	if err != nil {
		metrics.ProjectionsTotal.WithLabelValues("preview", "error").Inc()
		return nil, nil, err
	}
	metrics.ProjectionsTotal.WithLabelValues("preview", "ok").Inc()
	return snap, p, nil
}
