package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dan9191/cashflow-service/internal/models"
)

const jsonSnapshot = `{
  "starting_balance": 1000,
  "as_of": "2025-01-15",
  "horizon_days": 30,
  "obligations": [
    {"id": "rent", "name": "Rent", "amount": 500, "kind": "expense", "cadence": "monthly", "next_occurrence": "2025-01-15"},
    {"id": "salary", "name": "Salary", "amount": 3000, "kind": "income", "cadence": "monthly", "next_occurrence": "2025-01-28"}
  ],
  "debts": [
    {"id": "bnpl", "name": "Tabby", "monthly_payment_amount": 120, "cadence": "monthly", "next_due_date": "2025-01-20", "status": "active", "remaining_amount": 360}
  ]
}`

const tomlSnapshot = `starting_balance = 1000.0
as_of = "2025-01-15"
horizon_days = 30

[[obligations]]
id = "rent"
name = "Rent"
amount = 500.0
kind = "expense"
cadence = "monthly"
next_occurrence = "2025-01-15"

[[obligations]]
id = "salary"
name = "Salary"
amount = 3000.0
kind = "income"
cadence = "monthly"
next_occurrence = "2025-01-28"

[[debts]]
id = "bnpl"
name = "Tabby"
monthly_payment_amount = 120.0
cadence = "monthly"
next_due_date = "2025-01-20"
status = "active"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadSnapshot(t *testing.T) {
	for _, path := range []string{
		writeFile(t, "snap.json", jsonSnapshot),
		writeFile(t, "snap.TOML", tomlSnapshot),
	} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			snap, err := loadSnapshot(path)
			if err != nil {
				t.Fatalf("loadSnapshot() error = %v", err)
			}
			if snap.StartingBalance != 1000 || snap.AsOf != "2025-01-15" || snap.HorizonDays != 30 {
				t.Errorf("header = %+v", snap)
			}
			if len(snap.Obligations) != 2 || snap.Obligations[1].Kind != "income" {
				t.Errorf("obligations = %+v", snap.Obligations)
			}
			if len(snap.Debts) != 1 || snap.Debts[0].MonthlyPaymentAmount != 120 {
				t.Errorf("debts = %+v", snap.Debts)
			}
		})
	}

	if _, err := loadSnapshot(""); err == nil {
		t.Error("loadSnapshot(\"\") should fail")
	}
	if _, err := loadSnapshot(writeFile(t, "broken.json", "{")); err == nil {
		t.Error("broken JSON should fail")
	}
}

func TestProjectCommand(t *testing.T) {
	path := writeFile(t, "snap.json", jsonSnapshot)

	out, err := run(t, "project", "-f", path, "-o", "json")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	var resp models.ForecastResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(resp.Events) != 3 || resp.EndingBalance != 3380 {
		t.Errorf("resp = %+v", resp)
	}

	out, err = run(t, "project", "-f", path, "--days", "10")
	if err != nil {
		t.Fatalf("project text: %v", err)
	}
	if !strings.Contains(out, "Tabby") || strings.Contains(out, "Salary") {
		t.Errorf("10-day table should stop before salary:\n%s", out)
	}
}

func TestProjectCommand_AsOfOverride(t *testing.T) {
	path := writeFile(t, "snap.toml", tomlSnapshot)
	out, err := run(t, "project", "-f", path, "--as-of", "2025-01-21", "--days", "8", "-o", "json")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	var resp models.ForecastResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AsOf != "2025-01-21" || len(resp.Events) != 1 || resp.Events[0].Description != "Salary" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSummaryCommand(t *testing.T) {
	path := writeFile(t, "snap.json", jsonSnapshot)
	out, err := run(t, "summary", "-f", path)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{
		"Ending balance:   3380.00",
		"Lowest balance:   380.00 on 2025-01-20",
		"2025-W03  1 events  -500.00",
		"Debt-free by:     2025-03 (360.00 remaining)",
		"2025-01",
		"+2380.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestExportCommand(t *testing.T) {
	path := writeFile(t, "snap.json", jsonSnapshot)
	dest := filepath.Join(t.TempDir(), "out.xml")
	if _, err := run(t, "export", "-f", path, "--format", "xml", "--out", dest); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), `<Event date="2025-01-28"`) {
		t.Errorf("xml = %s", data)
	}
}

func TestCommandErrors(t *testing.T) {
	path := writeFile(t, "snap.json", jsonSnapshot)
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"project"}},
		{"bad tz", []string{"project", "-f", path, "--tz", "Mars/Olympus"}},
		{"bad output", []string{"summary", "-f", path, "-o", "yaml"}},
		{"bad format", []string{"export", "-f", path, "--format", "pdf"}},
		{"bad as-of", []string{"project", "-f", path, "--as-of", "tomorrow"}},
		{"negative days", []string{"project", "-f", path, "--days", "-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}
