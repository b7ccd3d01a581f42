package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/core"
)

// PeriodSummary is the billing month snapshot for a reference date.
type PeriodSummary struct {
	Date      time.Time       `json:"date"`
	Total     decimal.Decimal `json:"total"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Paid returns the amount already charged this period.
func (s PeriodSummary) Paid() decimal.Decimal {
	return s.Total.Sub(s.Remaining)
}

// TotalForPeriod sums every monthly entry plus the yearly entries billed in
// the month of d.
func TotalForPeriod(entries []core.Entry, d time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if matcherFor(e.Cycle).InPeriod(e.Cycle, d) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// PaidForPeriod sums the entries of d's month whose due day is before d.
func PaidForPeriod(entries []core.Entry, d time.Time) decimal.Decimal {
	paid := decimal.Zero
	for _, e := range entries {
		if matcherFor(e.Cycle).PaidBefore(e.Cycle, d) {
			paid = paid.Add(e.Amount)
		}
	}
	return paid
}

// RemainingForPeriod returns what is still to be charged in d's month.
// Entries due on d itself count as remaining.
func RemainingForPeriod(entries []core.Entry, d time.Time) decimal.Decimal {
	return TotalForPeriod(entries, d).Sub(PaidForPeriod(entries, d))
}

// Summarize computes total and remaining for d in one call.
func Summarize(entries []core.Entry, d time.Time) PeriodSummary {
	return PeriodSummary{
		Date:      d,
		Total:     TotalForPeriod(entries, d),
		Remaining: RemainingForPeriod(entries, d),
	}
}

// SummarizeNow summarizes at the calendar's current instant.
func SummarizeNow(entries []core.Entry, cal core.Calendar) PeriodSummary {
	return Summarize(entries, cal.Now().In(cal.Location()))
}
