package maps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mahnouor1/streetly/app/observability/metrics"
	"github.com/mahnouor1/streetly/internal/api/prediction"
	"github.com/mahnouor1/streetly/internal/api/weather"
	"github.com/mahnouor1/streetly/internal/types"
)

// User-facing failures of the map operations. Handlers surface these
// messages; no raw transport error ever reaches the caller.
var (
	ErrEmptyDestination = errors.New("Please enter a destination.")
	ErrGeolocation      = errors.New("Geolocation permission denied.")
	ErrRouteNotFound    = errors.New("Could not find a route. Try again.")
	ErrPredictBusy      = errors.New("Prediction already in progress.")
)

// Default base-map view over northern Pakistan.
var defaultCenter = types.Coordinate{Latitude: 33.6844, Longitude: 73.0479}

const defaultZoom = 5

// Controller owns one session's map widget: base map, markers, routing,
// click-to-weather, and the disaster prediction overlay.
type Controller struct {
	mu          sync.Mutex
	logger      *slog.Logger
	renderer    Renderer
	geolocator  Geolocator
	directions  Directions
	weather     weather.Service
	predictions prediction.Client
	country     string
	predictBusy bool
}

func NewController(
	renderer Renderer,
	geolocator Geolocator,
	directions Directions,
	weatherSvc weather.Service,
	predictions prediction.Client,
	country string,
	logger *slog.Logger,
) *Controller {
	c := &Controller{
		logger:      logger,
		renderer:    renderer,
		geolocator:  geolocator,
		directions:  directions,
		weather:     weatherSvc,
		predictions: predictions,
		country:     country,
	}
	c.renderer.RenderMap(defaultCenter, defaultZoom)
	return c
}

// CenterOnCity recenters the map and moves the single city marker.
func (c *Controller) CenterOnCity(city *types.City) {
	pos := types.Coordinate{Latitude: city.Latitude, Longitude: city.Longitude}
	c.renderer.RenderMap(pos, 10)
	c.renderer.PlaceMarker(Marker{
		ID:       "city",
		Kind:     MarkerCity,
		Title:    city.Name,
		Position: pos,
	})
}

// Click resolves weather for the clicked coordinate and shows it in a popup
// anchored at the click point.
func (c *Controller) Click(ctx context.Context, lat, lon float64) Popup {
	snap := c.weather.GetByCoords(ctx, lat, lon)
	name := snap.CityName
	if name == "" {
		name = "Unknown"
	}
	p := Popup{
		Content:  fmt.Sprintf("%s: %s°C, %s", name, snap.Temperature, snap.Condition),
		Position: types.Coordinate{Latitude: lat, Longitude: lon},
	}
	c.renderer.ShowPopup(p)
	return p
}

// PlanRoute geolocates the user, asks the directions service for a route to
// the free-text destination, and renders the polyline plus a summary popup at
// the route end. Any failure leaves a previously rendered route untouched.
func (c *Controller) PlanRoute(ctx context.Context, destination string) (*Route, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, ErrEmptyDestination
	}

	origin, err := c.geolocator.CurrentPosition(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "Geolocation failed", slog.Any("error", err))
		return nil, ErrGeolocation
	}

	result, err := c.directions.Route(ctx, origin, destination)
	if err != nil {
		c.logger.WarnContext(ctx, "Directions request failed", slog.Any("error", err))
		return nil, ErrRouteNotFound
	}
	if result.Status != "OK" {
		return nil, ErrRouteNotFound
	}

	route := result.Route
	c.renderer.DrawRoute(route)
	c.renderer.ShowPopup(Popup{
		Content: fmt.Sprintf("🚗 Route Found!\nFrom: %s\nTo: %s\nDistance: %s\nDuration: %s",
			route.Origin, route.Destination, route.Distance, route.Duration),
		Position: route.EndLocation,
	})
	return &route, nil
}

// PredictDisaster clears prior hazard markers, fetches fresh predictions and
// active disaster events, and renders one styled marker per entry. The
// trigger is disabled for the duration and re-enabled even when the fetch
// fails.
func (c *Controller) PredictDisaster(ctx context.Context) (int, error) {
	c.mu.Lock()
	if c.predictBusy {
		c.mu.Unlock()
		return 0, ErrPredictBusy
	}
	c.predictBusy = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.predictBusy = false
		c.mu.Unlock()
	}()

	c.renderer.ClearMarkers(MarkerPrediction)
	c.renderer.ClearMarkers(MarkerDisaster)

	predictions := c.predictions.FetchPredictions(ctx)
	for i, p := range predictions {
		c.renderer.PlaceMarker(Marker{
			ID:       fmt.Sprintf("pred-%d", i),
			Kind:     MarkerPrediction,
			Title:    fmt.Sprintf("%s Risk: %s - %s", strings.ToUpper(string(p.Type)), p.Risk, p.Location),
			Position: types.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude},
			Style:    prediction.MarkerStyle(p.Risk),
			Info: fmt.Sprintf("Risk: %s, Probability: %.0f%%, Confidence: %.0f%%",
				p.Risk, p.Probability*100, p.Confidence*100),
		})
	}

	events := c.predictions.FetchDisasterEvents(ctx, c.country)
	for i, e := range events {
		info := "Type: " + strings.ToUpper(e.Type)
		if e.Severity != "" {
			info += ", Severity: " + e.Severity
		}
		if e.Magnitude != nil {
			info += fmt.Sprintf(", Magnitude: %.1f", *e.Magnitude)
		}
		c.renderer.PlaceMarker(Marker{
			ID:       fmt.Sprintf("event-%d", i),
			Kind:     MarkerDisaster,
			Title:    fmt.Sprintf("⚠️ %s (%s)", e.Name, e.Type),
			Position: types.Coordinate{Latitude: e.Latitude, Longitude: e.Longitude},
			Style:    types.MarkerStyle{Color: "#dc2626", Size: 36},
			Info:     info,
		})
	}

	total := len(predictions) + len(events)
	if m := metrics.Get(); m != nil {
		m.PredictionMarkersPlotted.Add(ctx, int64(total))
	}
	return total, nil
}

// OpenMarkerPanel opens one marker's info panel, closing any other.
func (c *Controller) OpenMarkerPanel(markerID string) {
	c.renderer.OpenInfoPanel(markerID)
}

// Snapshotter is implemented by renderers whose state can be read back.
type Snapshotter interface {
	Snapshot() MapState
}

// State returns the rendered widget snapshot when the renderer supports it.
func (c *Controller) State() MapState {
	if s, ok := c.renderer.(Snapshotter); ok {
		return s.Snapshot()
	}
	return MapState{}
}
