package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/freshfold/laundry-api/internal/domains/drivers/adapters/memory"
	"github.com/freshfold/laundry-api/internal/domains/drivers/application"
	"github.com/freshfold/laundry-api/internal/domains/drivers/domain"
)

func TestService_CountsLookupsByKind(t *testing.T) {
	repo := memory.NewRepository()
	reader := sdkmetric.NewManualReader()
	spans := tracetest.NewSpanRecorder()
	svc := New(application.NewService(repo),
		WithTracer(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("test")),
		WithMeter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")),
	)
	ctx := context.Background()

	driver, err := domain.NewDriver("d1", "Dana", "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, driver)
	require.NoError(t, err)
	_, err = svc.GetDriver(ctx, "d1")
	require.NoError(t, err)
	_, err = svc.Candidates(ctx)
	require.NoError(t, err)
	_, err = svc.Candidates(ctx)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	counts := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "drivers.registry.lookups" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				kind, _ := dp.Attributes.Value(attribute.Key("lookup"))
				counts[kind.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{"get": 1, "candidates": 2}, counts)

	changed, err := svc.ResetDailyCounters(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)
	ended := spans.Ended()
	assert.Equal(t, "DriverService.ResetDailyCounters", ended[len(ended)-1].Name())
}
