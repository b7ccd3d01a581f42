package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"

	"paycycle/internal/cli"
	"paycycle/internal/core"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	text.DisableColors()
	for k, v := range map[string]string{
		"AMQP_URL":              "",
		"GOOGLE_SPREADSHEET_ID": "",
		"CURRENCY":              "USD",
		"LOCALE":                "en-US",
		"TIMEZONE":              "UTC",
		"REMINDER_MODE":         "single",
		"LOG_LEVEL":             "error",
		"PORT":                  "8081",
		"REFRESH_CRON":          "0 0 * * *",
	} {
		t.Setenv(k, v)
	}
	return filepath.Join(t.TempDir(), "entries.json")
}

func execute(t *testing.T, dataFile string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--backend", "file", "--file", dataFile))
	err := rootCmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, dataFile string, args ...string) string {
	t.Helper()
	out, err := execute(t, dataFile, args...)
	if err != nil {
		t.Fatalf("paycycle %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestCommands(t *testing.T) {
	dataFile := setupEnv(t)

	out := mustExecute(t, dataFile, "add", "--title", "Rent", "--cycle", "0001", "--amount", "900")
	if !strings.Contains(out, "Added Rent (every month on day 01, $900)") {
		t.Errorf("add output = %q", out)
	}
	mustExecute(t, dataFile, "add", "--genre", "culture", "--title", "Festival", "--cycle", "0320", "--amount", "5000")

	out = mustExecute(t, dataFile, "summary", "--date", "2024-03-16")
	for _, want := range []string{"$5,900", "$900", "$5,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}

	out = mustExecute(t, dataFile, "week", "--date", "2024-03-20")
	if !strings.Contains(out, "Festival") || strings.Contains(out, "Rent") {
		t.Errorf("week output = %s", out)
	}

	backup := filepath.Join(t.TempDir(), "backup.yaml")
	mustExecute(t, dataFile, "export", backup)
	entries, err := cli.ImportFile(backup)
	if err != nil || len(entries) != 2 {
		t.Fatalf("exported %d entries, %v", len(entries), err)
	}

	var rent core.Entry
	for _, e := range entries {
		if e.Title == "Rent" {
			rent = e
		}
	}
	mustExecute(t, dataFile, "edit", rent.ID.String()[:8], "--amount", "950")
	out = mustExecute(t, dataFile, "list")
	if !strings.Contains(out, "$950") {
		t.Errorf("list after edit = %s", out)
	}

	mustExecute(t, dataFile, "remove", rent.ID.String())
	out = mustExecute(t, dataFile, "list")
	if strings.Contains(out, "Rent") {
		t.Errorf("list after remove still shows Rent:\n%s", out)
	}

	mustExecute(t, dataFile, "import", backup)
	out = mustExecute(t, dataFile, "list")
	if !strings.Contains(out, "Rent") || !strings.Contains(out, "$900") {
		t.Errorf("list after import = %s", out)
	}
}

func TestCommandErrors(t *testing.T) {
	dataFile := setupEnv(t)

	_, err := execute(t, dataFile, "add", "--title", "Bad", "--cycle", "12", "--amount", "1")
	if !errors.Is(err, core.ErrInvalidCycle) {
		t.Errorf("add with short cycle: error = %v, want ErrInvalidCycle", err)
	}

	if _, err := execute(t, dataFile, "remove", "ffffffff"); err == nil {
		t.Error("remove of an unknown id should fail")
	}

	_, err = execute(t, dataFile, "reminders", "watch")
	if err == nil || !strings.Contains(err.Error(), "AMQP_URL") {
		t.Errorf("reminders watch error = %v, want AMQP_URL hint", err)
	}
}
