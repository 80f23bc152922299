package analysis

// SortField orders ByFile and ByRule.
type SortField string

const (
	// SortByCount sorts by offense count.
	SortByCount SortField = "count"
	// SortByAlpha sorts by path or rule name, ascending.
	SortByAlpha SortField = "alpha"
	// SortBySeverity puts the most errors first, then the most warnings.
	SortBySeverity SortField = "severity"
)

// IsValid reports whether s is a known sort field.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}

// Options configures Analyze.
type Options struct {
	IncludeOffenses bool
	IncludeByFile   bool
	IncludeByRule   bool

	SortBy SortField

	// SortDesc applies to SortByCount.
	SortDesc bool
}

// DefaultOptions includes every view, most offenses first.
func DefaultOptions() Options {
	return Options{
		IncludeOffenses: true,
		IncludeByFile:   true,
		IncludeByRule:   true,
		SortBy:          SortByCount,
		SortDesc:        true,
	}
}
