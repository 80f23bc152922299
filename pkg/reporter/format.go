package reporter

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned for an output format no reporter handles.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output format.
type Format string

// Output formats.
const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatSARIF   Format = "sarif"
	FormatDiff    Format = "diff"
	FormatSummary Format = "summary"
)

// ParseFormat parses a format name. The empty string is text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	f := Format(name)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q (valid: %v)", ErrUnknownFormat, name, ValidFormats())
	}
	return f, nil
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}

// ValidFormats lists the format names in help order.
func ValidFormats() []string {
	return []string{
		string(FormatText),
		string(FormatJSON),
		string(FormatSARIF),
		string(FormatDiff),
		string(FormatSummary),
	}
}
