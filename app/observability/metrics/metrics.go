package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ChatSendsTotal           metric.Int64Counter
	ChatDurationSeconds      metric.Float64Histogram
	WeatherFallbacksTotal    metric.Int64Counter
	PredictionFetchesTotal   metric.Int64Counter
	PredictionMarkersPlotted metric.Int64Counter
	CitySelectionsTotal      metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments only once,
// taking the meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("Streetly")
		var err error
		m := &AppMetrics{}

		m.ChatSendsTotal, err = meter.Int64Counter(
			"chat_sends_total",
			metric.WithDescription("Total chat messages sent to the agent"),
			metric.WithUnit("{message}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_sends_total: %v", err)
		}

		m.ChatDurationSeconds, err = meter.Float64Histogram(
			"chat_duration_seconds",
			metric.WithDescription("Duration of agent round trips in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_duration_seconds: %v", err)
		}

		m.WeatherFallbacksTotal, err = meter.Int64Counter(
			"weather_fallbacks_total",
			metric.WithDescription("Weather lookups that degraded to the fixed fallback"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_fallbacks_total: %v", err)
		}

		m.PredictionFetchesTotal, err = meter.Int64Counter(
			"prediction_fetches_total",
			metric.WithDescription("Calls to the ML prediction service"),
			metric.WithUnit("{fetch}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create prediction_fetches_total: %v", err)
		}

		m.PredictionMarkersPlotted, err = meter.Int64Counter(
			"prediction_markers_plotted",
			metric.WithDescription("Hazard markers placed on the map"),
			metric.WithUnit("{marker}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create prediction_markers_plotted: %v", err)
		}

		m.CitySelectionsTotal, err = meter.Int64Counter(
			"city_selections_total",
			metric.WithDescription("City selections across all sessions"),
			metric.WithUnit("{selection}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create city_selections_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metrics instance. Callers must run
// InitAppMetrics first; a nil return means metrics are disabled.
func Get() *AppMetrics {
	return appMetrics
}
