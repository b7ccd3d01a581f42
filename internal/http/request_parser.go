package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"paycycle/internal/core"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 16

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	// Try JSON first if content looks like JSON
	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	// Fall back to form parsing
	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// fieldError reports which input field failed and why.
type fieldError struct {
	Field string
	Err   error
}

func (e *fieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }
func (e *fieldError) Unwrap() error { return e.Err }

// ParseEntryInput reads genre, title, cycle and amount from the body. Genre
// accepts a name or numeric id; cycle is the four-digit code.
func ParseEntryInput(p *RequestBodyParser) (core.EntryInput, error) {
	if err := p.Parse(); err != nil {
		return core.EntryInput{}, fmt.Errorf("malformed request body: %w", err)
	}

	var in core.EntryInput
	var err error

	if in.Genre, err = core.ParseGenre(p.Get("genre")); err != nil {
		return in, &fieldError{Field: "genre", Err: err}
	}
	in.Title = p.Get("title")
	if in.Cycle, err = core.ParseCycle(p.Get("cycle")); err != nil {
		return in, &fieldError{Field: "cycle", Err: err}
	}
	if in.Amount, err = core.ParseAmount(p.Get("amount")); err != nil {
		return in, &fieldError{Field: "amount", Err: err}
	}
	if err := in.Validate(); err != nil {
		return in, &fieldError{Field: fieldOf(err), Err: err}
	}
	return in, nil
}

func fieldOf(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyTitle), errors.Is(err, core.ErrTitleTooLong):
		return "title"
	case errors.Is(err, core.ErrInvalidCycle):
		return "cycle"
	case errors.Is(err, core.ErrInvalidAmount):
		return "amount"
	case errors.Is(err, core.ErrInvalidGenre):
		return "genre"
	default:
		return "entry"
	}
}
