package core

import (
	"fmt"
)

const (
	Monthly CycleKind = "monthly"
	Yearly  CycleKind = "yearly"
)

type (
	// CycleKind tells whether an entry recurs every month or once a year.
	CycleKind string

	// Cycle is the decoded form of a four digit MMDD cycle code.
	// Month 0 means the entry recurs monthly on Day.
	Cycle struct {
		Month int
		Day   int
	}
)

// MalformedCycleError is returned when a cycle code is not exactly four ASCII digits.
type MalformedCycleError struct {
	Code string
}

func (e *MalformedCycleError) Error() string {
	return fmt.Sprintf("malformed cycle code %q: want 4 digits MMDD", e.Code)
}

// Is lets errors.Is(err, ErrInvalidCycle) match malformed codes.
func (e *MalformedCycleError) Is(target error) bool {
	return target == ErrInvalidCycle
}

// MonthlyCycle returns a cycle that recurs every month on day.
func MonthlyCycle(day int) Cycle {
	return Cycle{Month: 0, Day: day}
}

// YearlyCycle returns a cycle that recurs every year on month/day.
func YearlyCycle(month, day int) Cycle {
	return Cycle{Month: month, Day: day}
}

// ParseCycle decodes a MMDD code. A "00" month prefix marks a monthly cycle.
// Day plausibility is not checked: "0231" decodes to February 31.
func ParseCycle(code string) (Cycle, error) {
	if len(code) != 4 {
		return Cycle{}, &MalformedCycleError{Code: code}
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return Cycle{}, &MalformedCycleError{Code: code}
		}
	}
	month := int(code[0]-'0')*10 + int(code[1]-'0')
	day := int(code[2]-'0')*10 + int(code[3]-'0')
	return Cycle{Month: month, Day: day}, nil
}

// MustParseCycle is like ParseCycle but panics on malformed input.
func MustParseCycle(code string) Cycle {
	c, err := ParseCycle(code)
	if err != nil {
		panic(err)
	}
	return c
}

// String encodes the cycle as a zero padded MMDD code.
func (c Cycle) String() string {
	return fmt.Sprintf("%02d%02d", c.Month, c.Day)
}

// Kind reports whether the cycle is monthly or yearly.
func (c Cycle) Kind() CycleKind {
	if c.Month == 0 {
		return Monthly
	}
	return Yearly
}

func (c Cycle) IsMonthly() bool { return c.Month == 0 }
func (c Cycle) IsYearly() bool  { return c.Month != 0 }

// Validate checks the ranges a form would offer: month 0-12, day 1-31.
// It does not check the day against the month length.
func (c Cycle) Validate() error {
	if c.Month < 0 || c.Month > 12 {
		return fmt.Errorf("%w: month %d out of range 0-12", ErrInvalidCycle, c.Month)
	}
	if c.Day < 1 || c.Day > 31 {
		return fmt.Errorf("%w: day %d out of range 1-31", ErrInvalidCycle, c.Day)
	}
	return nil
}

// Label returns a human readable description of the cycle.
func (c Cycle) Label() string {
	if c.IsMonthly() {
		return fmt.Sprintf("every month on day %02d", c.Day)
	}
	return fmt.Sprintf("every year on %02d/%02d", c.Month, c.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (c Cycle) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cycle) UnmarshalText(text []byte) error {
	parsed, err := ParseCycle(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
