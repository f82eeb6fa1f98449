package maps

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mahnouor1/streetly/internal/types"
)

type MockWeatherService struct {
	mock.Mock
}

func (m *MockWeatherService) GetByCity(ctx context.Context, cityName string) types.WeatherSnapshot {
	args := m.Called(ctx, cityName)
	return args.Get(0).(types.WeatherSnapshot)
}

func (m *MockWeatherService) GetByCoords(ctx context.Context, lat, lon float64) types.WeatherSnapshot {
	args := m.Called(ctx, lat, lon)
	return args.Get(0).(types.WeatherSnapshot)
}

type MockPredictionClient struct {
	mock.Mock
}

func (m *MockPredictionClient) FetchPredictions(ctx context.Context) []types.Prediction {
	args := m.Called(ctx)
	return args.Get(0).([]types.Prediction)
}

func (m *MockPredictionClient) FetchDisasterEvents(ctx context.Context, country string) []types.DisasterEvent {
	args := m.Called(ctx, country)
	return args.Get(0).([]types.DisasterEvent)
}

type MockDirections struct {
	mock.Mock
}

func (m *MockDirections) Route(ctx context.Context, origin types.Coordinate, destination string) (*RouteResult, error) {
	args := m.Called(ctx, origin, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RouteResult), args.Error(1)
}

type failingGeolocator struct{}

func (failingGeolocator) CurrentPosition(ctx context.Context) (types.Coordinate, error) {
	return types.Coordinate{}, ErrPermissionDenied
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var islamabad = types.Coordinate{Latitude: 33.6844, Longitude: 73.0479}

func newTestController(geo Geolocator, dir Directions, weatherSvc *MockWeatherService, predictions *MockPredictionClient) *Controller {
	if geo == nil {
		geo = StaticGeolocator{Position: islamabad}
	}
	return NewController(NewStateRenderer(), geo, dir, weatherSvc, predictions, "Pakistan", testLogger())
}

func TestController_CenterOnCity(t *testing.T) {
	c := newTestController(nil, new(MockDirections), new(MockWeatherService), new(MockPredictionClient))

	// The initial view is the wide base map.
	state := c.State()
	assert.Equal(t, 5, state.Zoom)
	assert.InDelta(t, 33.6844, state.Center.Latitude, 0.001)

	hunza := &types.City{Name: "Hunza Valley", Latitude: 36.3167, Longitude: 74.65}
	c.CenterOnCity(hunza)

	state = c.State()
	assert.Equal(t, 10, state.Zoom)
	assert.InDelta(t, 36.3167, state.Center.Latitude, 0.001)
	require.Len(t, state.Markers, 1)
	assert.Equal(t, "Hunza Valley", state.Markers[0].Title)

	// Reselecting moves the city marker instead of adding a second one.
	skardu := &types.City{Name: "Skardu", Latitude: 35.2979, Longitude: 75.6333}
	c.CenterOnCity(skardu)

	state = c.State()
	require.Len(t, state.Markers, 1)
	assert.Equal(t, "Skardu", state.Markers[0].Title)
}

func TestController_Click(t *testing.T) {
	t.Run("shows weather popup at click point", func(t *testing.T) {
		weatherSvc := new(MockWeatherService)
		weatherSvc.On("GetByCoords", mock.Anything, 35.3, 75.6).
			Return(types.WeatherSnapshot{CityName: "Skardu", Temperature: "14", Condition: "Clear"})

		c := newTestController(nil, new(MockDirections), weatherSvc, new(MockPredictionClient))
		popup := c.Click(context.Background(), 35.3, 75.6)

		assert.Equal(t, "Skardu: 14°C, Clear", popup.Content)
		assert.InDelta(t, 35.3, popup.Position.Latitude, 0.001)
		require.NotNil(t, c.State().Popup)
		assert.Equal(t, popup.Content, c.State().Popup.Content)
	})

	t.Run("unnamed location falls back to Unknown", func(t *testing.T) {
		weatherSvc := new(MockWeatherService)
		weatherSvc.On("GetByCoords", mock.Anything, 1.0, 2.0).
			Return(types.WeatherSnapshot{Temperature: "22", Condition: "Sunny"})

		c := newTestController(nil, new(MockDirections), weatherSvc, new(MockPredictionClient))
		popup := c.Click(context.Background(), 1.0, 2.0)
		assert.Equal(t, "Unknown: 22°C, Sunny", popup.Content)
	})
}

func TestController_PlanRoute(t *testing.T) {
	ctx := context.Background()

	t.Run("empty destination never geolocates", func(t *testing.T) {
		dir := new(MockDirections)
		c := newTestController(failingGeolocator{}, dir, new(MockWeatherService), new(MockPredictionClient))

		_, err := c.PlanRoute(ctx, "   ")
		assert.ErrorIs(t, err, ErrEmptyDestination)
		dir.AssertNotCalled(t, "Route", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("geolocation denial", func(t *testing.T) {
		c := newTestController(failingGeolocator{}, new(MockDirections), new(MockWeatherService), new(MockPredictionClient))

		_, err := c.PlanRoute(ctx, "Murree")
		assert.ErrorIs(t, err, ErrGeolocation)
		assert.EqualError(t, err, "Geolocation permission denied.")
	})

	t.Run("renders route and summary popup", func(t *testing.T) {
		dir := new(MockDirections)
		route := Route{
			Origin:      "Islamabad, Pakistan",
			Destination: "Murree, Pakistan",
			Distance:    "64.3 km",
			Duration:    "1 hour 45 mins",
			EndLocation: types.Coordinate{Latitude: 33.9070, Longitude: 73.3943},
		}
		dir.On("Route", mock.Anything, islamabad, "Murree").
			Return(&RouteResult{Status: "OK", Route: route}, nil)

		c := newTestController(nil, dir, new(MockWeatherService), new(MockPredictionClient))
		got, err := c.PlanRoute(ctx, "Murree")
		require.NoError(t, err)
		assert.Equal(t, route, *got)

		state := c.State()
		require.NotNil(t, state.Route)
		assert.Equal(t, "Murree, Pakistan", state.Route.Destination)
		require.NotNil(t, state.Popup)
		assert.Contains(t, state.Popup.Content, "🚗 Route Found!")
		assert.Contains(t, state.Popup.Content, "Distance: 64.3 km")
	})

	t.Run("non-OK status keeps the prior route", func(t *testing.T) {
		dir := new(MockDirections)
		dir.On("Route", mock.Anything, islamabad, "Murree").
			Return(&RouteResult{Status: "OK", Route: Route{Destination: "Murree, Pakistan"}}, nil).Once()
		dir.On("Route", mock.Anything, islamabad, "Nowhere").
			Return(&RouteResult{Status: "ZERO_RESULTS"}, nil).Once()

		c := newTestController(nil, dir, new(MockWeatherService), new(MockPredictionClient))
		_, err := c.PlanRoute(ctx, "Murree")
		require.NoError(t, err)

		_, err = c.PlanRoute(ctx, "Nowhere")
		assert.ErrorIs(t, err, ErrRouteNotFound)

		state := c.State()
		require.NotNil(t, state.Route)
		assert.Equal(t, "Murree, Pakistan", state.Route.Destination)
	})

	t.Run("transport failure maps to route-not-found", func(t *testing.T) {
		dir := new(MockDirections)
		dir.On("Route", mock.Anything, islamabad, "Murree").
			Return(nil, errors.New("dial tcp: timeout"))

		c := newTestController(nil, dir, new(MockWeatherService), new(MockPredictionClient))
		_, err := c.PlanRoute(ctx, "Murree")
		assert.ErrorIs(t, err, ErrRouteNotFound)
		assert.Nil(t, c.State().Route)
	})
}

func TestController_PredictDisaster(t *testing.T) {
	ctx := context.Background()

	t.Run("plots styled markers for predictions and events", func(t *testing.T) {
		predictions := new(MockPredictionClient)
		predictions.On("FetchPredictions", mock.Anything).Return([]types.Prediction{{
			Type:        types.HazardEarthquake,
			Location:    "Skardu",
			Latitude:    35.2979,
			Longitude:   75.6333,
			Risk:        types.RiskHigh,
			Probability: 0.8,
			Confidence:  0.9,
		}})
		magnitude := 5.4
		predictions.On("FetchDisasterEvents", mock.Anything, "Pakistan").Return([]types.DisasterEvent{{
			Name:      "M 5.4 - Hindu Kush",
			Type:      "earthquake",
			Latitude:  36.5,
			Longitude: 71.2,
			Magnitude: &magnitude,
		}})

		c := newTestController(nil, new(MockDirections), new(MockWeatherService), predictions)
		count, err := c.PredictDisaster(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		state := c.State()
		require.Len(t, state.Markers, 2)

		pred := state.Markers[0]
		assert.Equal(t, "pred-0", pred.ID)
		assert.Equal(t, MarkerPrediction, pred.Kind)
		assert.Equal(t, "EARTHQUAKE Risk: high - Skardu", pred.Title)
		assert.Equal(t, types.MarkerStyle{Color: "#dc2626", Size: 40}, pred.Style)
		assert.Equal(t, "Risk: high, Probability: 80%, Confidence: 90%", pred.Info)

		event := state.Markers[1]
		assert.Equal(t, "event-0", event.ID)
		assert.Equal(t, MarkerDisaster, event.Kind)
		assert.Equal(t, "⚠️ M 5.4 - Hindu Kush (earthquake)", event.Title)
		assert.Equal(t, types.MarkerStyle{Color: "#dc2626", Size: 36}, event.Style)
		assert.Equal(t, "Type: EARTHQUAKE, Magnitude: 5.4", event.Info)
	})

	t.Run("re-trigger clears prior hazard markers but not the city", func(t *testing.T) {
		predictions := new(MockPredictionClient)
		predictions.On("FetchPredictions", mock.Anything).Return([]types.Prediction{{
			Type: types.HazardFlood, Location: "Naran",
			Latitude: 34.9, Longitude: 73.65, Risk: types.RiskLow,
		}}).Once()
		predictions.On("FetchPredictions", mock.Anything).Return([]types.Prediction{}).Once()
		predictions.On("FetchDisasterEvents", mock.Anything, "Pakistan").Return([]types.DisasterEvent{})

		c := newTestController(nil, new(MockDirections), new(MockWeatherService), predictions)
		c.CenterOnCity(&types.City{Name: "Naran", Latitude: 34.9, Longitude: 73.65})

		_, err := c.PredictDisaster(ctx)
		require.NoError(t, err)
		assert.Len(t, c.State().Markers, 2) // city + flood prediction

		count, err := c.PredictDisaster(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		state := c.State()
		require.Len(t, state.Markers, 1)
		assert.Equal(t, MarkerCity, state.Markers[0].Kind)
	})

	t.Run("concurrent trigger is rejected while busy", func(t *testing.T) {
		predictions := new(MockPredictionClient)
		release := make(chan struct{})
		started := make(chan struct{})
		predictions.On("FetchPredictions", mock.Anything).
			Run(func(args mock.Arguments) {
				close(started)
				<-release
			}).
			Return([]types.Prediction{}).Once()
		predictions.On("FetchPredictions", mock.Anything).Return([]types.Prediction{})
		predictions.On("FetchDisasterEvents", mock.Anything, "Pakistan").Return([]types.DisasterEvent{})

		c := newTestController(nil, new(MockDirections), new(MockWeatherService), predictions)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.PredictDisaster(ctx)
			assert.NoError(t, err)
		}()

		<-started
		_, err := c.PredictDisaster(ctx)
		assert.ErrorIs(t, err, ErrPredictBusy)

		close(release)
		wg.Wait()

		// The trigger is re-enabled once the first run settles.
		waitForIdle(t, c)
		_, err = c.PredictDisaster(ctx)
		assert.NoError(t, err)
	})
}

func waitForIdle(t *testing.T, c *Controller) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		busy := c.predictBusy
		c.mu.Unlock()
		if !busy {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("prediction trigger never re-enabled")
}

func TestController_OpenMarkerPanel(t *testing.T) {
	predictions := new(MockPredictionClient)
	predictions.On("FetchPredictions", mock.Anything).Return([]types.Prediction{
		{Type: types.HazardFlood, Location: "Naran", Latitude: 34.9, Longitude: 73.65, Risk: types.RiskLow},
		{Type: types.HazardEarthquake, Location: "Skardu", Latitude: 35.3, Longitude: 75.6, Risk: types.RiskHigh},
	})
	predictions.On("FetchDisasterEvents", mock.Anything, "Pakistan").Return([]types.DisasterEvent{})

	c := newTestController(nil, new(MockDirections), new(MockWeatherService), predictions)
	_, err := c.PredictDisaster(context.Background())
	require.NoError(t, err)

	// Opening a second panel replaces the first; only one is ever open.
	c.OpenMarkerPanel("pred-0")
	assert.Equal(t, "pred-0", c.State().OpenPanel)
	c.OpenMarkerPanel("pred-1")
	assert.Equal(t, "pred-1", c.State().OpenPanel)

	// Clearing the markers closes the panel that pointed at one of them.
	c.renderer.ClearMarkers(MarkerPrediction)
	assert.Equal(t, "", c.State().OpenPanel)
}
