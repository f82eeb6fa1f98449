package weather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mahnouor1/streetly/internal/api/city"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupWeatherServiceTest(baseURL string) *ServiceImpl {
	repo := city.NewStaticCityRepository(testLogger())
	return NewServiceImpl(repo, baseURL, "test-key", testLogger())
}

func TestWeatherServiceImpl_GetByCoords(t *testing.T) {
	t.Run("maps provider payload", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "metric", r.URL.Query().Get("units"))
			assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"cod": 200,
				"name": "Skardu",
				"main": {"temp": 10.6},
				"weather": [{"description": "clear sky"}, {"description": "haze"}]
			}`))
		}))
		defer upstream.Close()

		service := setupWeatherServiceTest(upstream.URL)
		snap := service.GetByCoords(context.Background(), 35.2979, 75.6333)

		assert.Equal(t, "Skardu", snap.CityName)
		assert.Equal(t, "11", snap.Temperature, "temperature rounds to nearest integer")
		assert.Equal(t, "clear sky", snap.Condition, "first condition description wins")
	})

	t.Run("network failure falls back", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		upstream.Close() // connection refused

		service := setupWeatherServiceTest(upstream.URL)
		snap := service.GetByCoords(context.Background(), 35.0, 75.0)

		assert.Equal(t, "22", snap.Temperature)
		assert.Equal(t, "Sunny", snap.Condition)
	})

	t.Run("non-200 provider cod falls back", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"cod": 401, "message": "Invalid API key"}`))
		}))
		defer upstream.Close()

		service := setupWeatherServiceTest(upstream.URL)
		snap := service.GetByCoords(context.Background(), 35.0, 75.0)

		assert.Equal(t, "22", snap.Temperature)
		assert.Equal(t, "Sunny", snap.Condition)
	})

	t.Run("malformed payload falls back", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer upstream.Close()

		service := setupWeatherServiceTest(upstream.URL)
		snap := service.GetByCoords(context.Background(), 35.0, 75.0)

		assert.Equal(t, "22", snap.Temperature)
		assert.Equal(t, "Sunny", snap.Condition)
	})
}

func TestWeatherServiceImpl_GetByCity(t *testing.T) {
	t.Run("known city resolves to precise coordinates", func(t *testing.T) {
		var gotLat, gotLon string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotLat = r.URL.Query().Get("lat")
			gotLon = r.URL.Query().Get("lon")
			w.Write([]byte(`{"cod":200,"name":"Skardu","main":{"temp":9.4},"weather":[{"description":"few clouds"}]}`))
		}))
		defer upstream.Close()

		service := setupWeatherServiceTest(upstream.URL)
		snap := service.GetByCity(context.Background(), "Skardu")

		assert.Contains(t, gotLat, "35.29")
		assert.Contains(t, gotLon, "75.63")
		assert.Equal(t, "9", snap.Temperature)
		assert.Equal(t, "few clouds", snap.Condition)
	})

	t.Run("unknown city reports unavailable without network call", func(t *testing.T) {
		called := false
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer upstream.Close()

		service := setupWeatherServiceTest(upstream.URL)
		snap := service.GetByCity(context.Background(), "Atlantis")

		assert.False(t, called)
		assert.Equal(t, "N/A", snap.Temperature)
		assert.Equal(t, "Unknown", snap.Condition)
	})
}
