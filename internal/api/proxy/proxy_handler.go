package proxy

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
)

// Handler hosts the two standalone pass-through endpoints that used to live
// as serverless functions: a weather proxy and a flood-data proxy. Both keep
// the provider credential server-side and return the upstream JSON verbatim.
type Handler struct {
	logger          *slog.Logger
	client          *http.Client
	weatherAPIKey   string
	openWeatherBase string
	openMeteoBase   string
}

func NewProxyHandler(weatherAPIKey, openWeatherBase, openMeteoBase string, logger *slog.Logger) *Handler {
	return &Handler{
		logger:          logger,
		client:          &http.Client{Timeout: 15 * time.Second},
		weatherAPIKey:   weatherAPIKey,
		openWeatherBase: openWeatherBase,
		openMeteoBase:   openMeteoBase,
	}
}

// GetWeather handles GET /proxy/weather?lat=&lon=
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ProxyHandler").Start(r.Context(), "GetWeather")
	defer span.End()

	lat := r.URL.Query().Get("lat")
	lon := r.URL.Query().Get("lon")
	if lat == "" || lon == "" {
		http.Error(w, "Missing required query parameters: lat and lon", http.StatusBadRequest)
		return
	}

	upstream := fmt.Sprintf(
		"%s/onecall?%s",
		h.openWeatherBase,
		url.Values{
			"lat":     {lat},
			"lon":     {lon},
			"exclude": {"minutely,hourly,alerts"},
			"appid":   {h.weatherAPIKey},
			"units":   {"metric"},
		}.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstream, nil)
	if err != nil {
		http.Error(w, "Failed to fetch weather data", http.StatusInternalServerError)
		return
	}
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.ErrorContext(ctx, "Weather proxy upstream failed", slog.Any("error", err))
		http.Error(w, "Failed to fetch weather data", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		http.Error(w, "Failed to fetch weather data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.ErrorContext(ctx, "Weather proxy copy failed", slog.Any("error", err))
	}
}

// GetFloodData handles GET /proxy/flood?lat=&lon=
func (h *Handler) GetFloodData(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ProxyHandler").Start(r.Context(), "GetFloodData")
	defer span.End()

	lat := r.URL.Query().Get("lat")
	lon := r.URL.Query().Get("lon")
	if lat == "" || lon == "" {
		http.Error(w, "Latitude and Longitude are required.", http.StatusBadRequest)
		return
	}

	upstream := fmt.Sprintf("%s/forecast?%s", h.openMeteoBase, url.Values{
		"latitude":      {lat},
		"longitude":     {lon},
		"daily":         {"river_discharge"},
		"forecast_days": {"1"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstream, nil)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.ErrorContext(ctx, "Flood proxy upstream failed", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	// Non-OK upstream statuses are proxied through, not masked.
	if resp.StatusCode != http.StatusOK {
		http.Error(w, "Failed to fetch data from Open-Meteo.", resp.StatusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.ErrorContext(ctx, "Flood proxy copy failed", slog.Any("error", err))
	}
}
