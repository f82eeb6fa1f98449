package container

import (
	"context"
	"log/slog"

	"github.com/mahnouor1/streetly/config"
	"github.com/mahnouor1/streetly/internal/api/agent"
	"github.com/mahnouor1/streetly/internal/api/city"
	"github.com/mahnouor1/streetly/internal/api/maps"
	"github.com/mahnouor1/streetly/internal/api/prediction"
	"github.com/mahnouor1/streetly/internal/api/proxy"
	"github.com/mahnouor1/streetly/internal/api/session"
	"github.com/mahnouor1/streetly/internal/api/weather"
	"github.com/mahnouor1/streetly/internal/types"
)

// Container holds all application dependencies
type Container struct {
	Config            *config.Config
	Logger            *slog.Logger
	CityHandler       *city.Handler
	WeatherHandler    *weather.Handler
	PredictionHandler *prediction.Handler
	ProxyHandler      *proxy.Handler
	SessionHandler    *session.Handler
	SessionManager    *session.Manager
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	// Repositories
	cityRepo := city.NewStaticCityRepository(logger)

	// Services
	cityService := city.NewServiceImpl(cityRepo, logger)
	weatherService := weather.NewServiceImpl(
		cityRepo,
		cfg.Providers.OpenWeather.BaseURL,
		cfg.Providers.OpenWeather.APIKey,
		logger,
	)
	agentService := agent.NewServiceImpl(
		ctx,
		cfg.Providers.Gemini.APIKey,
		cfg.Providers.Gemini.Model,
		logger,
	)
	predictionClient := prediction.NewHTTPClient(
		cfg.Providers.Prediction.BaseURL,
		cfg.Providers.Prediction.CacheTTL,
		logger,
	)

	// Map capabilities: the server pins the geolocated origin to Islamabad;
	// directions stay disabled until a provider key is configured.
	geolocator := maps.StaticGeolocator{
		Position: types.Coordinate{Latitude: 33.6844, Longitude: 73.0479},
	}
	directions := maps.NewHTTPDirections("", "")

	sessionManager := session.NewManager(
		cityService,
		weatherService,
		agentService,
		predictionClient,
		geolocator,
		directions,
		cfg.Providers.Prediction.Country,
		cfg.Session.IdleTTL,
		logger,
	)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		CityHandler:       city.NewCityHandler(cityService, logger),
		WeatherHandler:    weather.NewWeatherHandler(weatherService, logger),
		PredictionHandler: prediction.NewPredictionHandler(predictionClient, cfg.Providers.Prediction.Country, logger),
		ProxyHandler: proxy.NewProxyHandler(
			cfg.Providers.OpenWeather.APIKey,
			cfg.Providers.OpenWeather.BaseURL,
			cfg.Providers.OpenMeteo.BaseURL,
			logger,
		),
		SessionHandler: session.NewSessionHandler(sessionManager, logger),
		SessionManager: sessionManager,
	}, nil
}
