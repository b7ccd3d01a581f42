package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var errBadDate = errors.New("date must be YYYY-MM-DD")

// parseDate parses a date string in YYYY-MM-DD format as local midnight in
// loc.
func parseDate(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(dateStr), loc)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return t, nil
}

// dateParam reads the "date" query parameter, defaulting to now.
func dateParam(r *http.Request, now time.Time) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get("date"))
	if v == "" {
		return now, nil
	}
	return parseDate(v, now.Location())
}

// parseID parses an entry id path value.
func parseID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
