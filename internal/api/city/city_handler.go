package city

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewCityHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// GetAllCities handles GET /cities - returns the full destination table
func (h *Handler) GetAllCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetAllCities")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetAllCities"))

	cities, err := h.service.GetAllCities(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		http.Error(w, "Failed to retrieve cities", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cities); err != nil {
		l.ErrorContext(ctx, "Failed to encode cities response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "JSON encoding failed")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "Cities returned successfully")
}

// GetCity handles GET /cities/{name}
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetCity")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetCity"))

	name := chi.URLParam(r, "name")
	c, err := h.service.GetCity(ctx, name)
	if err != nil {
		if errors.Is(err, ErrCityNotFound) {
			http.Error(w, "City not found", http.StatusNotFound)
			return
		}
		l.ErrorContext(ctx, "Failed to retrieve city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		http.Error(w, "Failed to retrieve city", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(c); err != nil {
		l.ErrorContext(ctx, "Failed to encode city response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "JSON encoding failed")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
