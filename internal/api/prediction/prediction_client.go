package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mahnouor1/streetly/app/observability/metrics"
	"github.com/mahnouor1/streetly/internal/types"
)

var _ Client = (*HTTPClient)(nil)

// Client fetches hazard predictions and active disaster events from the local
// prediction service. All methods degrade to empty results; they never
// surface a transport error to callers.
type Client interface {
	FetchPredictions(ctx context.Context) []types.Prediction
	FetchDisasterEvents(ctx context.Context, country string) []types.DisasterEvent
}

// HTTPClient talks to the prediction service over plain GETs. An empty base
// URL disables the adapter (non-local deployments).
type HTTPClient struct {
	logger   *slog.Logger
	client   *http.Client
	baseURL  string
	cache    *gocache.Cache
	cacheTTL time.Duration
}

func NewHTTPClient(baseURL string, cacheTTL time.Duration, logger *slog.Logger) *HTTPClient {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &HTTPClient{
		logger:   logger,
		client:   &http.Client{Timeout: 15 * time.Second},
		baseURL:  baseURL,
		cache:    gocache.New(cacheTTL, 10*time.Minute),
		cacheTTL: cacheTTL,
	}
}

// predictionEntry matches one value of the per-location prediction maps.
// Coordinates are pointers so absent fields can be told apart from zero.
type predictionEntry struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	RiskLevel   string   `json:"risk_level"`
	Probability *float64 `json:"probability"`
	Confidence  *float64 `json:"confidence"`
}

type mlPredictionsResponse struct {
	EarthquakePredictions map[string]predictionEntry `json:"earthquake_predictions"`
	FloodPredictions      map[string]predictionEntry `json:"flood_predictions"`
}

type disastersResponse struct {
	Events []types.DisasterEvent `json:"events"`
}

func (c *HTTPClient) FetchPredictions(ctx context.Context) []types.Prediction {
	if c.baseURL == "" {
		return nil
	}

	var data mlPredictionsResponse
	if err := c.getJSON(ctx, c.baseURL+"/ml-predictions", &data); err != nil {
		c.logger.WarnContext(ctx, "Prediction fetch failed", slog.Any("error", err))
		return nil
	}
	if m := metrics.Get(); m != nil {
		m.PredictionFetchesTotal.Add(ctx, 1)
	}

	predictions := make([]types.Prediction, 0,
		len(data.EarthquakePredictions)+len(data.FloodPredictions))
	predictions = appendPredictions(predictions, types.HazardEarthquake, data.EarthquakePredictions)
	predictions = appendPredictions(predictions, types.HazardFlood, data.FloodPredictions)
	return predictions
}

// appendPredictions converts one hazard map, dropping entries without
// coordinates and defaulting missing risk/probability/confidence. One bad
// entry never fails the batch.
func appendPredictions(dst []types.Prediction, hazard types.HazardType, entries map[string]predictionEntry) []types.Prediction {
	for location, e := range entries {
		if e.Latitude == nil || e.Longitude == nil {
			continue
		}
		p := types.Prediction{
			Type:        hazard,
			Location:    location,
			Latitude:    *e.Latitude,
			Longitude:   *e.Longitude,
			Risk:        types.RiskMedium,
			Probability: 0.5,
			Confidence:  0.7,
		}
		if e.RiskLevel != "" {
			p.Risk = types.RiskTier(e.RiskLevel)
		}
		if e.Probability != nil {
			p.Probability = *e.Probability
		}
		if e.Confidence != nil {
			p.Confidence = *e.Confidence
		}
		dst = append(dst, p)
	}
	return dst
}

func (c *HTTPClient) FetchDisasterEvents(ctx context.Context, country string) []types.DisasterEvent {
	if c.baseURL == "" {
		return nil
	}

	cacheKey := "disasters:" + country
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]types.DisasterEvent)
	}

	endpoint := c.baseURL + "/disasters?" + url.Values{"country": {country}}.Encode()
	var data disastersResponse
	if err := c.getJSON(ctx, endpoint, &data); err != nil {
		c.logger.WarnContext(ctx, "Disaster events fetch failed", slog.Any("error", err))
		return nil
	}

	events := data.Events
	if events == nil {
		events = []types.DisasterEvent{}
	}
	c.cache.Set(cacheKey, events, c.cacheTTL)
	return events
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("error decoding resp.Body: %w", err)
	}
	return nil
}

// MarkerStyle maps a risk tier to its fixed marker color/size.
func MarkerStyle(risk types.RiskTier) types.MarkerStyle {
	switch risk {
	case types.RiskHigh:
		return types.MarkerStyle{Color: "#dc2626", Size: 40}
	case types.RiskMedium:
		return types.MarkerStyle{Color: "#f59e0b", Size: 35}
	case types.RiskLow:
		return types.MarkerStyle{Color: "#10b981", Size: 30}
	default:
		return types.MarkerStyle{Color: "#6b7280", Size: 30}
	}
}
