package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "forecastctl",
		Short: "Project cashflow snapshots",
		Long: `forecastctl projects a balance snapshot forward in time.
Snapshots are JSON or TOML files holding a starting balance, recurring
obligations and debts. The file format is chosen by extension.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringP("file", "f", "", "Snapshot file (.json or .toml)")
	flags.String("as-of", "", "Override the snapshot date (YYYY-MM-DD)")
	flags.IntP("days", "d", 0, "Override the horizon in days")
	flags.String("tz", "UTC", "IANA time zone the calendar is computed in")
	flags.StringP("output", "o", outputText, "Output format: text or json")
	flags.Bool("verbose", false, "Log at debug level")

	root.AddCommand(newProjectCmd(), newSummaryCmd(), newExportCmd(), newRemindCmd())
	return root
}

// loadSnapshot reads a snapshot file, decoding TOML for .toml files and
// JSON otherwise
func loadSnapshot(path string) (models.Snapshot, error) {
	var snap models.Snapshot
	if path == "" {
		return snap, fmt.Errorf("snapshot file required: forecastctl <command> -f <file>")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &snap); err != nil {
			return snap, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return snap, fmt.Errorf("read snapshot: %w", err)
		}
		if err := json.Unmarshal(data, &snap); err != nil {
			return snap, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return snap, nil
}

// load reads the snapshot named by the flags, applies overrides and builds
// a service computing in the --tz calendar
func load(cmd *cobra.Command) (*service.Service, models.Snapshot, error) {
	path, _ := cmd.Flags().GetString("file")
	asOf, _ := cmd.Flags().GetString("as-of")
	days, _ := cmd.Flags().GetInt("days")
	tz, _ := cmd.Flags().GetString("tz")

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, models.Snapshot{}, fmt.Errorf("invalid --tz: %w", err)
	}
	snap, err := loadSnapshot(path)
	if err != nil {
		return nil, snap, err
	}
	if asOf != "" {
		snap.AsOf = asOf
	}
	if days != 0 {
		snap.HorizonDays = days
	}

	cfg := &config.Config{HorizonDays: forecast.DefaultHorizonDays, Location: loc}
	return service.NewService(nil, newLogger(cmd), cfg), snap, nil
}

// project loads the snapshot and runs the projection
func project(cmd *cobra.Command) (*forecast.Projection, error) {
	svc, snap, err := load(cmd)
	if err != nil {
		return nil, err
	}
	return svc.Preview(snap)
}

func newLogger(cmd *cobra.Command) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

func outputFormat(cmd *cobra.Command) (string, error) {
	out, _ := cmd.Flags().GetString("output")
	if out != outputText && out != outputJSON {
		return "", fmt.Errorf("--output must be %s or %s, got %q", outputText, outputJSON, out)
	}
	return out, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
