package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mahnouor1/streetly/internal/container"
)

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(c *container.Container) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Session-ID"},
		ExposedHeaders:   []string{"X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Standalone pass-through endpoints (former serverless functions).
	r.Get("/proxy/weather", c.ProxyHandler.GetWeather)
	r.Get("/proxy/flood", c.ProxyHandler.GetFloodData)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cities", c.CityHandler.GetAllCities)
		r.Get("/cities/{name}", c.CityHandler.GetCity)
		r.Get("/weather", c.WeatherHandler.GetWeather)
		r.Get("/predictions", c.PredictionHandler.GetPredictions)
		r.Get("/disasters", c.PredictionHandler.GetDisasterEvents)

		// Session-scoped routes
		r.Post("/session/city", c.SessionHandler.SelectCity)
		r.Get("/session/panels", c.SessionHandler.GetPanels)
		r.Post("/session/screen", c.SessionHandler.SetScreen)
		r.Get("/session/time", c.SessionHandler.GetLocalTime)

		r.Post("/chat/messages", c.SessionHandler.SendChatMessage)
		r.Get("/chat/messages", c.SessionHandler.GetChatMessages)

		r.Post("/map/click", c.SessionHandler.MapClick)
		r.Post("/map/route", c.SessionHandler.MapRoute)
		r.Post("/map/predict", c.SessionHandler.MapPredict)
		r.Post("/map/panel", c.SessionHandler.MapOpenPanel)
		r.Get("/map/state", c.SessionHandler.MapState)
	})

	return r
}
