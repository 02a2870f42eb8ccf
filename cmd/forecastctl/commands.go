package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/export"
	"github.com/Dan9191/cashflow-service/internal/notify"
	"github.com/Dan9191/cashflow-service/internal/repository"
	"github.com/Dan9191/cashflow-service/internal/scheduler"
	"github.com/Dan9191/cashflow-service/internal/service"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

// ─── project ────────────────────────────────────────────────────────────────

func newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "List projected events with the running balance",
		RunE:  runProject,
	}
}

func runProject(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	p, err := project(cmd)
	if err != nil {
		return err
	}
	if format == outputJSON {
		return writeJSON(cmd.OutOrStdout(), service.ToForecastResponse(p))
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Date\tDescription\tAmount\tBalance\t\n")
	fmt.Fprintf(tw, "%s\t%s\t\t%.2f\t\n", p.AsOf.Format(service.DateLayout), "starting balance", p.StartingBalance)
	for _, ev := range p.Events {
		fmt.Fprintf(tw, "%s\t%s\t%+.2f\t%.2f\t\n", ev.Date.Format(service.DateLayout), ev.Description, ev.Signed(), ev.RunningBalance)
	}
	return tw.Flush()
}

// ─── summary ────────────────────────────────────────────────────────────────

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals, the lowest balance and weekly groups",
		RunE:  runSummary,
	}
}

func runSummary(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	svc, snap, err := load(cmd)
	if err != nil {
		return err
	}
	p, s, err := svc.PreviewSummary(snap)
	if err != nil {
		return err
	}
	if format == outputJSON {
		return writeJSON(cmd.OutOrStdout(), s)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Horizon:          %s .. %s (%d days)\n", p.AsOf.Format(service.DateLayout),
		p.HorizonEnd.Format(service.DateLayout), p.HorizonDays)
	fmt.Fprintf(w, "Starting balance: %.2f\n", s.StartingBalance)
	fmt.Fprintf(w, "Ending balance:   %.2f\n", s.EndingBalance)
	fmt.Fprintf(w, "Projected change: %+.2f\n", s.ProjectedChange)
	fmt.Fprintf(w, "Income / expense: %.2f / %.2f\n", s.TotalIncome, s.TotalExpense)
	fmt.Fprintf(w, "Lowest balance:   %.2f on %s\n", s.LowestBalance, s.LowestBalanceDate)
	fmt.Fprintf(w, "Days below zero:  %d\n", s.DaysBelowZero)
	if d := s.Debts; d != nil {
		switch {
		case d.DebtFree:
			fmt.Fprintf(w, "Debt-free:        yes\n")
		case d.DebtFreeMonth != "":
			fmt.Fprintf(w, "Debt-free by:     %s (%.2f remaining)\n", d.DebtFreeMonth, d.TotalRemaining)
		default:
			fmt.Fprintf(w, "Debt-free by:     never (%d debts without a payoff)\n", d.NeverPaidOff)
		}
	}

	fmt.Fprintln(w, "Weeks:")
	for _, g := range s.ByWeek {
		fmt.Fprintf(w, "  %s  %d events  %+.2f\n", g.Week, len(g.Events), g.Net)
	}
	fmt.Fprintln(w, "Months:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Month\tIncome\tFixed\tDebts\tNet\tCumulative\t\n")
	for _, m := range s.ByMonth {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%+.2f\t%+.2f\t\n", m.Month, m.Income, m.FixedExpenses, m.DebtPayments, m.Net, m.CumulativeNet)
	}
	return tw.Flush()
}

// ─── export ─────────────────────────────────────────────────────────────────

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the projection as CSV or XML",
		RunE:  runExport,
	}
	cmd.Flags().String("format", export.FormatCSV, "Export format: csv or xml")
	cmd.Flags().String("out", "", "Output file (default stdout)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	if format != export.FormatCSV && format != export.FormatXML {
		return fmt.Errorf("--format must be csv or xml, got %q", format)
	}
	p, err := project(cmd)
	if err != nil {
		return err
	}

	if out == "" {
		return export.Write(cmd.OutOrStdout(), format, p)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := export.Write(f, format, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ─── remind ─────────────────────────────────────────────────────────────────

func newRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the reminder job once against the configured database",
		Long: `Run the payment-reminder job once. Database and SMTP settings are read
from the environment (and .env) exactly as the API server reads them.`,
		RunE: runRemind,
	}
}

func runRemind(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cmd)

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(repo, log, cfg)
	job := scheduler.NewReminders(repo, svc, notify.NewSender(cfg, log), log, cfg.ReminderWindowDays, cfg.LowBalanceThreshold)
	sent, err := job.RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sent %d reminder emails\n", sent)
	return nil
}
