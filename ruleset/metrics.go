package ruleset

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/jvitoroc/ruleast/ruleset"

type metrics struct {
	evaluations metric.Int64Counter
	matches     metric.Int64Counter
	errors      metric.Int64Counter
}

// WithMeterProvider records evaluation metrics through mp instead of the
// global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *RuleSet) {
		s.metrics = newMetrics(mp)
	}
}

// newMetrics never fails: an instrument that cannot be created is left nil
// and skipped when recording.
func newMetrics(mp metric.MeterProvider) *metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	m := &metrics{}
	m.evaluations, _ = meter.Int64Counter("ruleast.ruleset.evaluations",
		metric.WithDescription("Number of rule evaluations"),
	)
	m.matches, _ = meter.Int64Counter("ruleast.ruleset.matches",
		metric.WithDescription("Number of rule evaluations that matched"),
	)
	m.errors, _ = meter.Int64Counter("ruleast.ruleset.errors",
		metric.WithDescription("Number of rule evaluations that failed"),
	)

	return m
}

func (m *metrics) recordEvaluation(ctx context.Context, ruleName string, matched bool, err error) {
	attrs := metric.WithAttributes(attribute.String("rule", ruleName))

	if m.evaluations != nil {
		m.evaluations.Add(ctx, 1, attrs)
	}

	if err != nil {
		if m.errors != nil {
			m.errors.Add(ctx, 1, attrs)
		}
		return
	}

	if matched && m.matches != nil {
		m.matches.Add(ctx, 1, attrs)
	}
}
