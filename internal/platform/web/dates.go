package web

import (
	"fmt"
	"time"
)

// Input layouts for date and datetime form fields.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

// ParseDate parses a required yyyy-mm-dd field.
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: expected %s", field, DateLayout)
	}
	return t, nil
}

// ParseDateTime parses a required datetime field. HTML datetime-local
// values come without a zone; RFC 3339 is accepted for API clients.
func ParseDateTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	if t, err := time.Parse(DateTimeLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid %s: expected %s", field, DateTimeLayout)
}

// ParseOptionalDate parses a yyyy-mm-dd field that may be empty.
func ParseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseOptionalDateTime parses a datetime field that may be empty.
func ParseOptionalDateTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDateTime(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
