package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mahnouor1/streetly/internal/types"
)

// ErrPermissionDenied mirrors the browser geolocation denial.
var ErrPermissionDenied = errors.New("geolocation permission denied")

// Geolocator resolves the user's current position.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (types.Coordinate, error)
}

// StaticGeolocator always reports a fixed position. The server has no real
// device location, so deployments pin the origin (default: Islamabad).
type StaticGeolocator struct {
	Position types.Coordinate
}

func (g StaticGeolocator) CurrentPosition(ctx context.Context) (types.Coordinate, error) {
	return g.Position, nil
}

// RouteResult carries the directions-service answer. Status is the provider
// status string; anything other than "OK" means no usable route.
type RouteResult struct {
	Status string
	Route  Route
}

// Directions computes a driving route from an origin to a free-text destination.
type Directions interface {
	Route(ctx context.Context, origin types.Coordinate, destination string) (*RouteResult, error)
}

var _ Directions = (*HTTPDirections)(nil)

// HTTPDirections queries a Google-Directions-shaped REST endpoint. An empty
// base URL or key yields NOT_AVAILABLE without a network call.
type HTTPDirections struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPDirections(baseURL, apiKey string) *HTTPDirections {
	return &HTTPDirections{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			StartAddress string `json:"start_address"`
			EndAddress   string `json:"end_address"`
			Distance     struct {
				Text string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
			EndLocation struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"end_location"`
		} `json:"legs"`
	} `json:"routes"`
}

func (d *HTTPDirections) Route(ctx context.Context, origin types.Coordinate, destination string) (*RouteResult, error) {
	if d.baseURL == "" || d.apiKey == "" {
		return &RouteResult{Status: "NOT_AVAILABLE"}, nil
	}

	endpoint := d.baseURL + "/directions/json?" + url.Values{
		"origin":      {fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude)},
		"destination": {destination},
		"mode":        {"driving"},
		"key":         {d.apiKey},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	var data directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	if data.Status != "OK" || len(data.Routes) == 0 || len(data.Routes[0].Legs) == 0 {
		return &RouteResult{Status: data.Status}, nil
	}

	leg := data.Routes[0].Legs[0]
	return &RouteResult{
		Status: "OK",
		Route: Route{
			Origin:      leg.StartAddress,
			Destination: leg.EndAddress,
			Distance:    leg.Distance.Text,
			Duration:    leg.Duration.Text,
			EndLocation: types.Coordinate{Latitude: leg.EndLocation.Lat, Longitude: leg.EndLocation.Lng},
		},
	}, nil
}
