package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"paycycle/internal/backend"
	"paycycle/internal/cli"
	"paycycle/internal/config"
	"paycycle/internal/log"
)

var (
	flagBackend  string
	flagDBPath   string
	flagDataFile string
	flagDate     string
	flagCurrency string
)

var rootCmd = &cobra.Command{
	Use:           "paycycle",
	Short:         "Recurring payment tracker",
	Long:          "Track monthly and yearly recurring payments, see what is left to pay this month and plan weekly reminders.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runList,
}

// Execute is the main entry point called from main.go.
func Execute() {
	cli.LoadEnvFile()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Data backend ("+joinBackends()+"), overrides DATA_BACKEND")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path, overrides SQLITE_DB_PATH")
	rootCmd.PersistentFlags().StringVar(&flagDataFile, "file", "", "JSON data file, overrides DATA_FILE")
	rootCmd.PersistentFlags().StringVar(&flagDate, "date", "", "Reference date (YYYY-MM-DD), defaults to today")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "Currency code for display, overrides CURRENCY")
}

func joinBackends() string {
	return strings.Join(backend.GetBackendTypeStrings(), ", ")
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if flagBackend != "" {
		cfg.DataBackend = flagBackend
	}
	if flagDBPath != "" {
		cfg.SQLiteDBPath = flagDBPath
	}
	if flagDataFile != "" {
		cfg.DataFile = flagDataFile
	}
	if flagCurrency != "" {
		cfg.Currency = flagCurrency
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger keeps stdout for tables; diagnostics go to stderr at warn
// unless LOG_LEVEL says otherwise.
func newLogger(cfg *config.Config) *log.Logger {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return cli.NewLogger(os.Stderr, level, cfg.LogFormat, log.ComponentCLI)
}

// openApp is the shared loading path used by all commands.
func openApp(ctx context.Context) (*cli.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cli.NewApp(ctx, cfg, newLogger(cfg))
}

// referenceDate resolves --date in the service location.
func referenceDate(app *cli.App) (time.Time, error) {
	now := app.Service.Now()
	if flagDate == "" {
		return now, nil
	}
	d, err := time.ParseInLocation("2006-01-02", flagDate, app.Service.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", flagDate)
	}
	// same wall clock as now, on the requested day
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, d.Location()), nil
}
