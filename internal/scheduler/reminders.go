// Package scheduler runs the periodic payment-reminder job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Forecaster projects a user's balance
type Forecaster interface {
	Forecast(ctx context.Context, userID int64, days int) (*forecast.Projection, error)
}

// UserLister returns users who opted into reminders
type UserLister interface {
	ListReminderUsers(ctx context.Context) ([]models.User, error)
}

// Notifier delivers reminder emails
type Notifier interface {
	SendPaymentReminder(user models.User, due []forecast.ProjectedEvent, windowDays int) error
	SendLowBalanceAlert(user models.User, summary forecast.Summary, threshold float64) error
}

// Reminders emails upcoming payments and low-balance warnings
type Reminders struct {
	users      UserLister
	forecaster Forecaster
	notifier   Notifier
	log        *logrus.Logger
	windowDays int
	threshold  float64
	cron       *cron.Cron
}

// NewReminders creates the reminder job
func NewReminders(users UserLister, f Forecaster, n Notifier, log *logrus.Logger, windowDays int, threshold float64) *Reminders {
	return &Reminders{
		users:      users,
		forecaster: f,
		notifier:   n,
		log:        log,
		windowDays: windowDays,
		threshold:  threshold,
	}
}

// Start schedules RunOnce on a standard five-field cron spec
func (r *Reminders) Start(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		r.log.Info("Executing reminder run...")
		if _, err := r.RunOnce(ctx); err != nil {
			r.log.Errorf("Reminder run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add reminder job %q: %w", spec, err)
	}
	r.cron = c
	c.Start()
	return nil
}

// Stop waits for a running job to finish or ctx to expire
func (r *Reminders) Stop(ctx context.Context) {
	if r.cron == nil {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce processes every reminder user and returns the number of emails
// sent. A failing user is logged and skipped.
func (r *Reminders) RunOnce(ctx context.Context) (int, error) {
	users, err := r.users.ListReminderUsers(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		log := r.log.WithField("user_id", u.ID)

		p, err := r.forecaster.Forecast(ctx, u.ID, r.windowDays)
		if err != nil {
			log.WithError(err).Warn("Skipping reminders, projection failed")
			metrics.RemindersTotal.WithLabelValues("projection", "error").Inc()
			continue
		}

		if due := expenses(p.Events); len(due) > 0 {
			if err := r.notifier.SendPaymentReminder(u, due, r.windowDays); err != nil {
				metrics.RemindersTotal.WithLabelValues("payment", "error").Inc()
			} else {
				metrics.RemindersTotal.WithLabelValues("payment", "ok").Inc()
				sent++
			}
		}

		summary := forecast.Summarize(p)
		if summary.LowestBalance < r.threshold {
			if err := r.notifier.SendLowBalanceAlert(u, summary, r.threshold); err != nil {
				metrics.RemindersTotal.WithLabelValues("low_balance", "error").Inc()
			} else {
				metrics.RemindersTotal.WithLabelValues("low_balance", "ok").Inc()
				sent++
			}
		}
	}

	r.log.WithFields(logrus.Fields{"users": len(users), "sent": sent}).Info("Reminder run complete")
	return sent, nil
}

func expenses(events []forecast.ProjectedEvent) []forecast.ProjectedEvent {
	var out []forecast.ProjectedEvent
	for _, ev := range events {
		if ev.Direction == forecast.Expense && ev.Amount > 0 {
			out = append(out, ev)
		}
	}
	return out
}
