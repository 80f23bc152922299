package lint

import (
	"bytes"
	"cmp"
	"fmt"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/herblint/pkg/config"
)

// DebtCounts is the number of known offenses tolerated for one rule in one file.
type DebtCounts struct {
	Errors   int `yaml:"errors"`
	Warnings int `yaml:"warnings"`
}

// DebtEntry is one rule+file budget of a DebtStore.
type DebtEntry struct {
	Rule     string
	File     string
	Errors   int
	Warnings int
}

// DebtStore holds the legacy-debt budgets of a project, keyed by rule and
// then file. Offenses within a budget are still reported but marked
// Tolerated and do not fail a run.
//
// A store is read-only once linting starts and may then be shared between
// goroutines.
type DebtStore struct {
	budgets map[string]map[string]DebtCounts
}

// NewDebtStore creates an empty store.
func NewDebtStore() *DebtStore {
	return &DebtStore{budgets: make(map[string]map[string]DebtCounts)}
}

// ParseDebt decodes a legacy-debt document of the form
//
//	rule-name:
//	  path/to/file.html.erb:
//	    errors: 2
//	    warnings: 0
func ParseDebt(data []byte) (*DebtStore, error) {
	var raw map[string]map[string]DebtCounts
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse legacy-debt file: %w", err)
	}

	store := NewDebtStore()
	for rule, files := range raw {
		for file, counts := range files {
			if counts.Errors < 0 || counts.Warnings < 0 {
				return nil, fmt.Errorf("parse legacy-debt file: %s: %s: negative count", rule, file)
			}
			store.Set(rule, file, counts)
		}
	}
	return store, nil
}

// Set replaces the budget of rule in file.
func (s *DebtStore) Set(rule, file string, counts DebtCounts) {
	files := s.budgets[rule]
	if files == nil {
		files = make(map[string]DebtCounts)
		s.budgets[rule] = files
	}
	files[debtKey(file)] = counts
}

// Add counts one offense into the budget of its rule and file.
// Severities other than error and warning are not budgeted.
func (s *DebtStore) Add(file string, o Offense) {
	counts, _ := s.Budget(o.Rule, file)
	switch o.Severity {
	case config.SeverityError:
		counts.Errors++
	case config.SeverityWarning:
		counts.Warnings++
	default:
		return
	}
	s.Set(o.Rule, file, counts)
}

// Budget returns the budget of rule in file.
func (s *DebtStore) Budget(rule, file string) (DebtCounts, bool) {
	if s == nil {
		return DebtCounts{}, false
	}
	counts, ok := s.budgets[rule][debtKey(file)]
	return counts, ok
}

// Len returns the number of rule+file entries.
func (s *DebtStore) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, files := range s.budgets {
		n += len(files)
	}
	return n
}

// Entries returns all budgets sorted by rule, then file.
func (s *DebtStore) Entries() []DebtEntry {
	if s == nil {
		return nil
	}
	entries := make([]DebtEntry, 0, s.Len())
	for rule, files := range s.budgets {
		for file, counts := range files {
			entries = append(entries, DebtEntry{
				Rule:     rule,
				File:     file,
				Errors:   counts.Errors,
				Warnings: counts.Warnings,
			})
		}
	}
	slices.SortFunc(entries, func(a, b DebtEntry) int {
		return cmp.Or(cmp.Compare(a.Rule, b.Rule), cmp.Compare(a.File, b.File))
	})
	return entries
}

// ToYAML encodes the store in the legacy-debt file format.
// yaml.v3 sorts map keys, so the output is deterministic.
func (s *DebtStore) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(config.YAMLIndent())
	if err := enc.Encode(s.budgets); err != nil {
		return nil, fmt.Errorf("encode legacy-debt file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode legacy-debt file: %w", err)
	}
	return buf.Bytes(), nil
}

// debtKey normalizes a file path so lookups match across platforms.
func debtKey(file string) string {
	return filepath.ToSlash(filepath.Clean(file))
}

// tolerate marks the offenses of one file that fit their rule's budget.
// Offenses are consumed in order, so the first N of a rule are tolerated.
func (s *DebtStore) tolerate(file string, offenses []Offense) (errors, warnings int) {
	if s == nil || s.Len() == 0 || file == "" {
		return 0, 0
	}

	used := make(map[string]DebtCounts)
	for i := range offenses {
		o := &offenses[i]
		budget, ok := s.Budget(o.Rule, file)
		if !ok {
			continue
		}
		u := used[o.Rule]
		switch {
		case o.Severity == config.SeverityError && u.Errors < budget.Errors:
			u.Errors++
			errors++
		case o.Severity == config.SeverityWarning && u.Warnings < budget.Warnings:
			u.Warnings++
			warnings++
		default:
			continue
		}
		used[o.Rule] = u
		o.Tolerated = true
	}
	return errors, warnings
}
