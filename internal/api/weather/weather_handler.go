package weather

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/mahnouor1/streetly/internal/api"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewWeatherHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// GetWeather handles GET /weather?city= or GET /weather?lat=&lon=
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "GetWeather")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetWeather"))

	q := r.URL.Query()
	if cityName := q.Get("city"); cityName != "" {
		snap := h.service.GetByCity(ctx, cityName)
		span.SetStatus(codes.Ok, "Weather returned")
		api.WriteJSONResponse(w, r, http.StatusOK, snap)
		return
	}

	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		l.WarnContext(ctx, "Missing or invalid coordinates", slog.String("lat", q.Get("lat")), slog.String("lon", q.Get("lon")))
		span.SetStatus(codes.Error, "Invalid query")
		api.ErrorResponse(w, r, http.StatusBadRequest, "provide city or numeric lat and lon")
		return
	}

	snap := h.service.GetByCoords(ctx, lat, lon)
	span.SetStatus(codes.Ok, "Weather returned")
	api.WriteJSONResponse(w, r, http.StatusOK, snap)
}
