package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/mahnouor1/streetly/internal/api/agent"
	"github.com/mahnouor1/streetly/internal/api/chat"
	"github.com/mahnouor1/streetly/internal/api/city"
	"github.com/mahnouor1/streetly/internal/api/maps"
	"github.com/mahnouor1/streetly/internal/api/prediction"
	"github.com/mahnouor1/streetly/internal/api/weather"
	"github.com/mahnouor1/streetly/internal/types"
)

// SessionHeader carries the session ID between client and server.
const SessionHeader = "X-Session-ID"

// Manager creates and caches sessions with an idle TTL; evicted sessions
// release their clock via the cache eviction hook.
type Manager struct {
	logger      *slog.Logger
	cities      city.Service
	weather     weather.Service
	agent       agent.Service
	predictions prediction.Client
	geolocator  maps.Geolocator
	directions  maps.Directions
	country     string
	sessions    *gocache.Cache
}

func NewManager(
	cities city.Service,
	weatherSvc weather.Service,
	agentSvc agent.Service,
	predictions prediction.Client,
	geolocator maps.Geolocator,
	directions maps.Directions,
	country string,
	idleTTL time.Duration,
	logger *slog.Logger,
) *Manager {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	store := gocache.New(idleTTL, 10*time.Minute)
	store.OnEvicted(func(key string, value interface{}) {
		if s, ok := value.(*Session); ok {
			s.Close()
		}
	})
	return &Manager{
		logger:      logger,
		cities:      cities,
		weather:     weatherSvc,
		agent:       agentSvc,
		predictions: predictions,
		geolocator:  geolocator,
		directions:  directions,
		country:     country,
		sessions:    store,
	}
}

// Resolve returns the request's session, creating one when the header is
// missing or expired. Touching a session refreshes its idle TTL.
func (m *Manager) Resolve(r *http.Request) *Session {
	id := r.Header.Get(SessionHeader)
	if id != "" {
		if v, ok := m.sessions.Get(id); ok {
			s := v.(*Session)
			m.sessions.SetDefault(id, s)
			return s
		}
	}
	return m.newSession()
}

func (m *Manager) newSession() *Session {
	id := uuid.New()
	s := &Session{
		ID:      id,
		logger:  m.logger.With(slog.String("session_id", id.String())),
		cities:  m.cities,
		weather: m.weather,
		chat:    chat.NewConversation(m.agent, m.logger),
		mapCtrl: maps.NewController(
			maps.NewStateRenderer(),
			m.geolocator,
			m.directions,
			m.weather,
			m.predictions,
			m.country,
			m.logger,
		),
		screen: types.ScreenCitySelection,
	}
	m.sessions.SetDefault(id.String(), s)
	return s
}

// Count reports live sessions (for the health endpoint).
func (m *Manager) Count() int {
	return m.sessions.ItemCount()
}
