package prediction

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/mahnouor1/streetly/internal/api"
)

type Handler struct {
	logger         *slog.Logger
	client         Client
	defaultCountry string
}

func NewPredictionHandler(client Client, defaultCountry string, logger *slog.Logger) *Handler {
	return &Handler{
		logger:         logger,
		client:         client,
		defaultCountry: defaultCountry,
	}
}

// GetPredictions handles GET /predictions
func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PredictionHandler").Start(r.Context(), "GetPredictions")
	defer span.End()

	predictions := h.client.FetchPredictions(ctx)
	span.SetStatus(codes.Ok, "Predictions returned")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"count":       len(predictions),
		"predictions": predictions,
	})
}

// GetDisasterEvents handles GET /disasters?country=
func (h *Handler) GetDisasterEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PredictionHandler").Start(r.Context(), "GetDisasterEvents")
	defer span.End()

	country := r.URL.Query().Get("country")
	if country == "" {
		country = h.defaultCountry
	}

	events := h.client.FetchDisasterEvents(ctx, country)
	span.SetStatus(codes.Ok, "Disaster events returned")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"count":  len(events),
		"events": events,
	})
}
