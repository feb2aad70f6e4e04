package ruleset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jvitoroc/ruleast/eval"
)

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "expected Sum type for %s", name)

			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value("rule")
				sums[v.AsString()] += dp.Value
			}
		}
	}

	return sums
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	s := eligibilityRules(t, WithMeterProvider(provider))

	_, err := s.FirstMatch(context.Background(), eval.Record{"age": eval.Int(22), "department": eval.String("Marketing")})
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"senior_sales": 1, "junior_marketing": 1}, collectSum(t, reader, "ruleast.ruleset.evaluations"))
	assert.Equal(t, map[string]int64{"junior_marketing": 1}, collectSum(t, reader, "ruleast.ruleset.matches"))
	assert.Empty(t, collectSum(t, reader, "ruleast.ruleset.errors"))
}
