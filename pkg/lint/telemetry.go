package lint

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter. Without a configured provider they are no-ops.
//
//nolint:gochecknoglobals // Instrumentation handles are process-wide.
var (
	tracer = otel.Tracer("herblint.lint")
	meter  = otel.Meter("herblint.lint")
)

// Metrics for lint operations.
//
//nolint:gochecknoglobals // Instruments are created once per process.
var (
	lintLatency    metric.Float64Histogram
	lintTotal      metric.Int64Counter
	offensesFound  metric.Int64Counter
	offensesIgnore metric.Int64Counter
	ruleFailures   metric.Int64Counter
	fixesApplied   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		if lintLatency, err = meter.Float64Histogram(
			"herblint_lint_duration_seconds",
			metric.WithDescription("Duration of lint operations"),
			metric.WithUnit("s"),
		); err != nil {
			metricsErr = err
			return
		}
		if lintTotal, err = meter.Int64Counter(
			"herblint_lint_total",
			metric.WithDescription("Total number of lint operations"),
		); err != nil {
			metricsErr = err
			return
		}
		if offensesFound, err = meter.Int64Counter(
			"herblint_offenses_total",
			metric.WithDescription("Offenses reported, by severity"),
		); err != nil {
			metricsErr = err
			return
		}
		if offensesIgnore, err = meter.Int64Counter(
			"herblint_offenses_ignored_total",
			metric.WithDescription("Offenses suppressed by herb:disable comments"),
		); err != nil {
			metricsErr = err
			return
		}
		if ruleFailures, err = meter.Int64Counter(
			"herblint_rule_failures_total",
			metric.WithDescription("Rule checks that returned an error or panicked"),
		); err != nil {
			metricsErr = err
			return
		}
		if fixesApplied, err = meter.Int64Counter(
			"herblint_fixes_total",
			metric.WithDescription("Autofix attempts, by outcome"),
		); err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startSpan creates a span for a linter operation on one file.
func startSpan(ctx context.Context, name, fileName string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("herblint.file", fileName)),
	)
}

// setLintSpanResult sets the result attributes on a lint span.
func setLintSpanResult(span trace.Span, r *Result) {
	span.SetAttributes(
		attribute.Int("herblint.errors", r.Errors),
		attribute.Int("herblint.warnings", r.Warnings),
		attribute.Int("herblint.ignored", r.Ignored),
		attribute.Int("herblint.rule_errors", len(r.RuleErrors)),
		attribute.Int("herblint.parse_errors", len(r.ParseErrors)),
	)
}

// recordLintMetrics records metrics for one lint operation.
func recordLintMetrics(ctx context.Context, duration time.Duration, r *Result) {
	if err := initMetrics(); err != nil {
		return
	}

	lintLatency.Record(ctx, duration.Seconds())
	lintTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("skipped", r.Skipped)))
	offensesFound.Add(ctx, int64(r.Errors), metric.WithAttributes(attribute.String("severity", "error")))
	offensesFound.Add(ctx, int64(r.Warnings), metric.WithAttributes(attribute.String("severity", "warning")))
	offensesIgnore.Add(ctx, int64(r.Ignored))
	for rule := range r.RuleErrors {
		ruleFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", rule)))
	}
}

// recordFixMetrics records autofix outcomes.
func recordFixMetrics(ctx context.Context, fixed, unfixed int) {
	if err := initMetrics(); err != nil {
		return
	}
	fixesApplied.Add(ctx, int64(fixed), metric.WithAttributes(attribute.Bool("fixed", true)))
	fixesApplied.Add(ctx, int64(unfixed), metric.WithAttributes(attribute.Bool("fixed", false)))
}
