package main

import (
	"github.com/spf13/cobra"

	"paycycle/internal/cli"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Total, paid and remaining for the billing month",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Payments due in the billing week (Monday to Sunday)",
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Weekly reminders planned for the coming year",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(summaryCmd, weekCmd, scheduleCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	at, err := referenceDate(app)
	if err != nil {
		return err
	}
	cli.RenderSummary(cmd.OutOrStdout(), app.Service.Summary(at), app.Service.Currency())
	return nil
}

func runWeek(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	at, err := referenceDate(app)
	if err != nil {
		return err
	}
	cli.RenderWeek(cmd.OutOrStdout(), app.Service.Week(at), app.Service.Currency())
	return nil
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	at, err := referenceDate(app)
	if err != nil {
		return err
	}
	cli.RenderSchedule(cmd.OutOrStdout(), app.Service.Schedule(at), app.Service.Currency())
	return nil
}
