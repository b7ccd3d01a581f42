package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paycycle/internal/cli"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all payments with the records in a JSON or YAML file",
	Long: `Replace all payments with the records in a JSON or YAML file.
The format follows the extension (.yaml, .yml or .json); "-" reads JSON from stdin.
The file is validated as a whole: a single bad record leaves the data untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write all payments to a JSON or YAML file",
	Long:  `Write all payments to a JSON or YAML file, chosen by extension; "-" writes JSON to stdout.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	entries, err := cli.ImportFile(args[0])
	if err != nil {
		return err
	}

	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Service.ReplaceEntries(cmd.Context(), entries); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Imported %d payments\n", len(entries))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	entries := app.Service.Entries()
	if err := cli.ExportFile(args[0], entries); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d payments\n", len(entries))
	return nil
}
