package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"paycycle/internal/billing"
	"paycycle/internal/core"
	"paycycle/internal/notify"
	"paycycle/internal/services"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// RenderEntries prints the entry collection with its monthly and yearly
// contributions.
func RenderEntries(w io.Writer, entries []core.Entry, cur core.Currency) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No payments registered.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Genre", "Title", "Cycle", "When", "Amount"})

	var monthly []decimal.Decimal
	for _, e := range entries {
		if e.Cycle.IsMonthly() {
			monthly = append(monthly, e.Amount)
		}
		t.AppendRow(table.Row{
			e.ID.String()[:8],
			e.Genre.Title(),
			e.Title,
			e.Cycle.String(),
			e.Cycle.Label(),
			cur.Format(e.Amount),
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", "", text.Bold.Sprint("Every month"), text.Bold.Sprint(cur.Format(core.Sum(monthly...)))})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

// RenderSummary prints total, paid and remaining for a billing month.
func RenderSummary(w io.Writer, s billing.PeriodSummary, cur core.Currency) {
	t := newTable(w)
	t.SetTitle("Billing month of %s", s.Date.Format(dateLayout))
	t.AppendRows([]table.Row{
		{"Total", cur.Format(s.Total)},
		{"Paid", cur.Format(s.Paid())},
		{"Remaining", text.Bold.Sprint(cur.Format(s.Remaining))},
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}

// RenderWeek prints the due entries of a billing week.
func RenderWeek(w io.Writer, v services.WeekView, cur core.Currency) {
	t := newTable(w)
	t.SetTitle("Week %s to %s", v.Start.Format(dateLayout), v.End.Format(dateLayout))
	t.AppendHeader(table.Row{"Date", "Title", "Genre", "Amount"})
	for _, d := range v.Due {
		t.AppendRow(table.Row{d.Date.Format("Mon 02 Jan"), d.Entry.Title, d.Entry.Genre.Title(), cur.Format(d.Entry.Amount)})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", text.Bold.Sprint("Total"), text.Bold.Sprint(cur.Format(v.Amount))})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

// RenderSchedule prints planned reminders in fire order.
func RenderSchedule(w io.Writer, schedule []notify.Notification, cur core.Currency) {
	if len(schedule) == 0 {
		fmt.Fprintln(w, "No reminders: nothing is billed in the coming weeks.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Fires at", "Week amount", "Message"})
	for _, n := range schedule {
		t.AppendRow(table.Row{n.FireAt.Format("2006-01-02 15:04"), cur.Format(n.Amount), n.Body})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}
