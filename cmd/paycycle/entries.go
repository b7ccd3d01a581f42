package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"paycycle/internal/cli"
	"paycycle/internal/core"
	"paycycle/internal/services"
)

var (
	flagGenre  string
	flagTitle  string
	flagCycle  string
	flagAmount string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered payments",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a recurring payment",
	Example: `  paycycle add --title Rent --cycle 0001 --amount 900
  paycycle add --genre culture --title Festival --cycle 0714 --amount 120.50`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a payment; omitted flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a payment",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVarP(&flagGenre, "genre", "g", "", "Genre name or id (culture, technology, transfer, membership, others)")
		c.Flags().StringVarP(&flagTitle, "title", "t", "", "Payment title")
		c.Flags().StringVarP(&flagCycle, "cycle", "c", "", "Cycle code MMDD, month 00 for monthly")
		c.Flags().StringVarP(&flagAmount, "amount", "a", "", "Amount charged per cycle")
	}
	addCmd.MarkFlagRequired("title")
	addCmd.MarkFlagRequired("cycle")
	addCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(listCmd, addCmd, editCmd, removeCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	cli.RenderEntries(cmd.OutOrStdout(), app.Service.Entries(), app.Service.Currency())
	return nil
}

func runAdd(cmd *cobra.Command, _ []string) error {
	in := core.EntryInput{Genre: core.GenreOthers}
	if err := applyEntryFlags(cmd, &in); err != nil {
		return err
	}

	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	e, err := app.Service.AddEntry(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %s)\n", e.Title, e.Cycle.Label(), app.Service.Currency().Format(e.Amount))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	id, err := resolveID(app.Service, args[0])
	if err != nil {
		return err
	}
	current, err := app.Service.Entry(id)
	if err != nil {
		return err
	}
	in := current.Input()
	if err := applyEntryFlags(cmd, &in); err != nil {
		return err
	}

	e, err := app.Service.UpdateEntry(cmd.Context(), id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s, %s)\n", e.Title, e.Cycle.Label(), app.Service.Currency().Format(e.Amount))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	id, err := resolveID(app.Service, args[0])
	if err != nil {
		return err
	}
	if err := app.Service.RemoveEntry(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
	return nil
}

// applyEntryFlags parses the entry flags that were set on cmd into in.
func applyEntryFlags(cmd *cobra.Command, in *core.EntryInput) error {
	flags := cmd.Flags()
	if flags.Changed("genre") {
		g, err := core.ParseGenre(flagGenre)
		if err != nil {
			return err
		}
		in.Genre = g
	}
	if flags.Changed("title") {
		in.Title = flagTitle
	}
	if flags.Changed("cycle") {
		c, err := core.ParseCycle(flagCycle)
		if err != nil {
			return err
		}
		in.Cycle = c
	}
	if flags.Changed("amount") {
		a, err := core.ParseAmount(flagAmount)
		if err != nil {
			return fmt.Errorf("%w: %q", err, flagAmount)
		}
		in.Amount = a
	}
	return nil
}

// resolveID accepts a full id or the short prefix shown by list.
func resolveID(svc *services.BillingService, arg string) (uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}
	prefix := strings.ToLower(strings.TrimSpace(arg))
	if prefix == "" {
		return uuid.Nil, core.ErrInvalidID
	}

	var matches []uuid.UUID
	for _, e := range svc.Entries() {
		if strings.HasPrefix(e.ID.String(), prefix) {
			matches = append(matches, e.ID)
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("no payment with id %q", arg)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("ambiguous id %q matches %d payments", arg, len(matches))
	}
}
