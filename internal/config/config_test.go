package config

import (
	"strings"
	"testing"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if cfg.HorizonDays != 30 {
		t.Errorf("HorizonDays = %d, want 30", cfg.HorizonDays)
	}
	if cfg.ReminderWindowDays != 7 {
		t.Errorf("ReminderWindowDays = %d, want 7", cfg.ReminderWindowDays)
	}
	if cfg.BalanceSource != BalanceFromAccount {
		t.Errorf("BalanceSource = %q", cfg.BalanceSource)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("Location = %s, want UTC", cfg.Location)
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("FORECAST_HORIZON_DAYS", "45")
	t.Setenv("FORECAST_TIMEZONE", "Asia/Dubai")
	t.Setenv("BALANCE_SOURCE", "month_net")
	t.Setenv("LOW_BALANCE_THRESHOLD", "250.5")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if cfg.HorizonDays != 45 || cfg.Location.String() != "Asia/Dubai" || cfg.BalanceSource != BalanceFromMonthNet || cfg.LowBalanceThreshold != 250.5 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"FORECAST_HORIZON_DAYS", "0", "must be positive"},
		{"FORECAST_HORIZON_DAYS", "thirty", "must be an integer"},
		{"REMINDER_WINDOW_DAYS", "-1", "must be positive"},
		{"BALANCE_SOURCE", "bank", "BALANCE_SOURCE"},
		{"FORECAST_TIMEZONE", "Mars/Olympus", "FORECAST_TIMEZONE"},
		{"LOW_BALANCE_THRESHOLD", "lots", "must be a number"},
		{"DB_CONN", "", "DB_CONN is required"},
		{"JWT_SECRET", "", "JWT_SECRET is required"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := NewConfig()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
