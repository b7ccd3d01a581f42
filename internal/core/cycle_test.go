package core

import (
	"errors"
	"testing"
)

func TestParseCycle(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    Cycle
		monthly bool
		wantErr bool
	}{
		{name: "monthly on the 5th", code: "0005", want: Cycle{Month: 0, Day: 5}, monthly: true},
		{name: "yearly on Jan 1", code: "0101", want: Cycle{Month: 1, Day: 1}},
		{name: "yearly on Dec 31", code: "1231", want: Cycle{Month: 12, Day: 31}},
		{name: "impossible day is accepted", code: "0230", want: Cycle{Month: 2, Day: 30}},
		{name: "placeholder zero code", code: "0000", want: Cycle{Month: 0, Day: 0}, monthly: true},
		{name: "too short", code: "005", wantErr: true},
		{name: "too long", code: "00005", wantErr: true},
		{name: "letters", code: "00a5", wantErr: true},
		{name: "sign", code: "-005", wantErr: true},
		{name: "empty", code: "", wantErr: true},
		{name: "non ascii digit", code: "00٥5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCycle(tt.code)
			if tt.wantErr {
				var malformed *MalformedCycleError
				if !errors.As(err, &malformed) {
					t.Fatalf("ParseCycle(%q) error = %v, want *MalformedCycleError", tt.code, err)
				}
				if !errors.Is(err, ErrInvalidCycle) {
					t.Errorf("ParseCycle(%q) error does not match ErrInvalidCycle", tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCycle(%q) unexpected error: %v", tt.code, err)
			}
			if got != tt.want {
				t.Errorf("ParseCycle(%q) = %+v, want %+v", tt.code, got, tt.want)
			}
			if got.IsMonthly() != tt.monthly {
				t.Errorf("ParseCycle(%q).IsMonthly() = %v, want %v", tt.code, got.IsMonthly(), tt.monthly)
			}
		})
	}
}

func TestCycleRoundTrip(t *testing.T) {
	for month := 0; month <= 12; month++ {
		for day := 1; day <= 31; day++ {
			c := Cycle{Month: month, Day: day}
			got, err := ParseCycle(c.String())
			if err != nil {
				t.Fatalf("ParseCycle(%q) unexpected error: %v", c.String(), err)
			}
			if got != c {
				t.Fatalf("round trip of %+v = %+v", c, got)
			}
		}
	}
}

func TestCycleString(t *testing.T) {
	if got := MonthlyCycle(5).String(); got != "0005" {
		t.Errorf("MonthlyCycle(5).String() = %q, want %q", got, "0005")
	}
	if got := YearlyCycle(1, 1).String(); got != "0101" {
		t.Errorf("YearlyCycle(1, 1).String() = %q, want %q", got, "0101")
	}
}

func TestCycleKindAndLabel(t *testing.T) {
	if k := MonthlyCycle(15).Kind(); k != Monthly {
		t.Errorf("Kind() = %v, want %v", k, Monthly)
	}
	if k := YearlyCycle(3, 20).Kind(); k != Yearly {
		t.Errorf("Kind() = %v, want %v", k, Yearly)
	}
	if l := MonthlyCycle(5).Label(); l != "every month on day 05" {
		t.Errorf("Label() = %q", l)
	}
	if l := YearlyCycle(3, 20).Label(); l != "every year on 03/20" {
		t.Errorf("Label() = %q", l)
	}
}

func TestCycleValidate(t *testing.T) {
	cases := []struct {
		c  Cycle
		ok bool
	}{
		{MonthlyCycle(1), true},
		{MonthlyCycle(31), true},
		{YearlyCycle(2, 30), true},
		{MonthlyCycle(0), false},
		{MonthlyCycle(32), false},
		{YearlyCycle(13, 1), false},
		{Cycle{Month: -1, Day: 1}, false},
	}
	for i, tc := range cases {
		err := tc.c.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidCycle) {
			t.Fatalf("case %d expected ErrInvalidCycle, got %v", i, err)
		}
	}
}

func TestCycleText(t *testing.T) {
	var c Cycle
	if err := c.UnmarshalText([]byte("0315")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if c != YearlyCycle(3, 15) {
		t.Errorf("UnmarshalText = %+v", c)
	}
	if err := c.UnmarshalText([]byte("315")); err == nil {
		t.Errorf("UnmarshalText(315) expected error")
	}
}
