package billing

import (
	"time"

	"paycycle/internal/core"
)

// TimelineEntry is one snapshot the home-screen widget shows from At onwards.
type TimelineEntry struct {
	At      time.Time     `json:"at"`
	Summary PeriodSummary `json:"summary"`
}

// WidgetTimeline returns the snapshot for now and the one for the next local
// midnight, so the widget flips to the new day without a refresh.
func WidgetTimeline(entries []core.Entry, now time.Time) []TimelineEntry {
	midnight := core.NextMidnight(now)
	return []TimelineEntry{
		{At: now, Summary: Summarize(entries, now)},
		{At: midnight, Summary: Summarize(entries, midnight)},
	}
}
