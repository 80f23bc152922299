package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaklabco/herblint/pkg/analysis"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
)

const (
	toolName       = "herblint"
	toolInfoURI    = "https://github.com/yaklabco/herblint"
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://json.schemastore.org/sarif-2.1.0.json"
)

// SARIFOutput is the root SARIF log.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun is a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver holds tool metadata and the rules that reported.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a rule.
type SARIFRule struct {
	ID               string           `json:"id"`
	ShortDescription *SARIFMessage    `json:"shortDescription,omitempty"`
	DefaultConfig    *SARIFRuleConfig `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any   `json:"properties,omitempty"`
}

// SARIFRuleConfig is a rule's default configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult is one offense.
type SARIFResult struct {
	RuleID     string          `json:"ruleId"`
	RuleIndex  int             `json:"ruleIndex"`
	Level      string          `json:"level"`
	Message    SARIFMessage    `json:"message"`
	Locations  []SARIFLocation `json:"locations"`
	Properties map[string]any  `json:"properties,omitempty"`

	// Suppressions marks offenses tolerated by the legacy-debt file.
	Suppressions []SARIFSuppression `json:"suppressions,omitempty"`
}

// SARIFMessage is plain text.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation wraps a physical location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation is a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation is the file URI, relative to the project root.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion is the offending range.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// SARIFSuppression records why a result does not fail the run.
type SARIFSuppression struct {
	Kind          string `json:"kind"`
	Justification string `json:"justification,omitempty"`
}

// SARIFRenderer writes an analysis.Report as SARIF 2.1.0.
type SARIFRenderer struct {
	opts Options
}

// NewSARIFRenderer creates a new SARIF renderer.
func NewSARIFRenderer(opts Options) *SARIFRenderer {
	return &SARIFRenderer{opts: opts}
}

// Render implements Renderer.
func (r *SARIFRenderer) Render(_ context.Context, report *analysis.Report) error {
	encoder := json.NewEncoder(r.opts.Writer)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(r.build(report)); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

func (r *SARIFRenderer) build(report *analysis.Report) *SARIFOutput {
	run := SARIFRun{
		Tool: SARIFTool{Driver: SARIFDriver{
			Name:           toolName,
			Version:        r.opts.ToolVersion,
			InformationURI: toolInfoURI,
			Rules:          []SARIFRule{},
		}},
		Results: []SARIFResult{},
	}

	index := make(map[string]int)
	for _, o := range report.Offenses {
		idx, ok := index[o.Rule]
		if !ok {
			idx = len(run.Tool.Driver.Rules)
			index[o.Rule] = idx
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, r.rule(o.Rule))
		}

		res := SARIFResult{
			RuleID:    o.Rule,
			RuleIndex: idx,
			Level:     sarifLevel(config.Severity(o.Severity)),
			Message:   SARIFMessage{Text: o.Message},
			Locations: []SARIFLocation{{PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: SARIFArtifactLocation{URI: o.File},
				Region: SARIFRegion{
					StartLine:   o.Line,
					StartColumn: o.Column,
					EndLine:     o.EndLine,
					EndColumn:   o.EndColumn,
				},
			}}},
		}
		if o.Fixable {
			res.Properties = map[string]any{"fixable": true}
		}
		if o.Tolerated {
			res.Suppressions = []SARIFSuppression{{Kind: "external", Justification: "legacy debt"}}
		}
		run.Results = append(run.Results, res)
	}

	return &SARIFOutput{Schema: sarifSchemaURI, Version: sarifVersion, Runs: []SARIFRun{run}}
}

// rule describes name from the registry when one is configured.
func (r *SARIFRenderer) rule(name string) SARIFRule {
	out := SARIFRule{ID: name}
	if r.opts.Registry == nil {
		return out
	}
	rule, ok := r.opts.Registry.Get(name)
	if !ok {
		return out
	}
	_, fixable := rule.(lint.Fixer)
	out.ShortDescription = &SARIFMessage{Text: rule.Description()}
	out.DefaultConfig = &SARIFRuleConfig{Level: sarifLevel(rule.Defaults().Severity)}
	out.Properties = map[string]any{
		"kind":    rule.Kind().String(),
		"fixable": fixable,
		"enabled": rule.Defaults().Enabled,
	}
	if tags := ruleTags(name); len(tags) > 0 {
		out.Properties["tags"] = tags
	}
	return out
}

// ruleTags derives the language tag from the rule name prefix.
func ruleTags(name string) []string {
	prefix, _, ok := strings.Cut(name, "-")
	if !ok {
		return nil
	}
	return []string{prefix}
}

func sarifLevel(severity config.Severity) string {
	switch severity {
	case config.SeverityError:
		return "error"
	case config.SeverityWarning:
		return "warning"
	case config.SeverityInfo, config.SeverityHint:
		return "note"
	default:
		return "warning"
	}
}
