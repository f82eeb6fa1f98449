package session

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/mahnouor1/streetly/internal/api"
	"github.com/mahnouor1/streetly/internal/api/city"
	"github.com/mahnouor1/streetly/internal/api/maps"
	"github.com/mahnouor1/streetly/internal/types"
)

// Handler serves every session-scoped endpoint: city selection, panels,
// screens, chat, and the map widget. Each request resolves its session from
// the X-Session-ID header and echoes the ID back.
type Handler struct {
	logger  *slog.Logger
	manager *Manager
}

func NewSessionHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		manager: manager,
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Session {
	s := h.manager.Resolve(r)
	w.Header().Set(SessionHeader, s.ID.String())
	return s
}

// SelectCity handles POST /session/city
func (h *Handler) SelectCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "SelectCity")
	defer span.End()

	l := h.logger.With(slog.String("method", "SelectCity"))
	s := h.session(w, r)

	var req struct {
		City string `json:"city"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	panels, err := s.SelectCity(ctx, req.City)
	if err != nil {
		if errors.Is(err, city.ErrCityNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Unknown city: "+req.City)
			return
		}
		l.ErrorContext(ctx, "City selection failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Selection failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to select city")
		return
	}

	span.SetStatus(codes.Ok, "City selected")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"screen": s.Screen(),
		"panels": panels,
	})
}

// GetPanels handles GET /session/panels
func (h *Handler) GetPanels(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	panels := s.Panels()
	if panels == nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "No city selected")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, panels)
}

// SetScreen handles POST /session/screen
func (h *Handler) SetScreen(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	var req struct {
		Screen string `json:"screen"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	active := s.ShowScreen(types.Screen(req.Screen))
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"screen": active})
}

// GetLocalTime handles GET /session/time
func (h *Handler) GetLocalTime(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"local_time": s.LocalTime()})
}

// SendChatMessage handles POST /chat/messages
func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "SendChatMessage")
	defer span.End()

	s := h.session(w, r)
	if s.CurrentCity() == "" {
		api.ErrorResponse(w, r, http.StatusConflict, "Select a city before chatting")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reply := s.Conversation().SendMessage(ctx, req.Text)
	if reply == nil {
		// Whitespace-only input: no message appended, no adapter call.
		api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
		return
	}

	span.SetStatus(codes.Ok, "Message settled")
	api.WriteJSONResponse(w, r, http.StatusOK, reply)
}

// GetChatMessages handles GET /chat/messages
func (h *Handler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"state":    s.Conversation().State(),
		"typing":   s.Conversation().TypingIndicators(),
		"messages": s.Conversation().Messages(),
	})
}

// MapClick handles POST /map/click
func (h *Handler) MapClick(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "MapClick")
	defer span.End()

	s := h.session(w, r)

	var req struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	popup := s.Map().Click(ctx, req.Lat, req.Lon)
	api.WriteJSONResponse(w, r, http.StatusOK, popup)
}

// MapRoute handles POST /map/route
func (h *Handler) MapRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "MapRoute")
	defer span.End()

	l := h.logger.With(slog.String("method", "MapRoute"))
	s := h.session(w, r)

	var req struct {
		Destination string `json:"destination"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	route, err := s.Map().PlanRoute(ctx, req.Destination)
	if err != nil {
		l.InfoContext(ctx, "Route planning aborted", slog.String("reason", err.Error()))
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Route rendered")
	api.WriteJSONResponse(w, r, http.StatusOK, route)
}

// MapPredict handles POST /map/predict
func (h *Handler) MapPredict(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "MapPredict")
	defer span.End()

	s := h.session(w, r)

	count, err := s.Map().PredictDisaster(ctx)
	if err != nil {
		if errors.Is(err, maps.ErrPredictBusy) {
			api.ErrorResponse(w, r, http.StatusConflict, err.Error())
			return
		}
		api.ErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Predictions rendered")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"markers": count})
}

// MapOpenPanel handles POST /map/panel
func (h *Handler) MapOpenPanel(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	var req struct {
		MarkerID string `json:"marker_id"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s.Map().OpenMarkerPanel(req.MarkerID)
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// MapState handles GET /map/state
func (h *Handler) MapState(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	api.WriteJSONResponse(w, r, http.StatusOK, s.Map().State())
}
