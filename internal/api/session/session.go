package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mahnouor1/streetly/app/observability/metrics"
	"github.com/mahnouor1/streetly/internal/api/chat"
	"github.com/mahnouor1/streetly/internal/api/city"
	"github.com/mahnouor1/streetly/internal/api/maps"
	"github.com/mahnouor1/streetly/internal/api/weather"
	"github.com/mahnouor1/streetly/internal/types"
)

// Session is the top-level per-page state holder: the single current-city
// slot, the visible screen, the timezone clock, the conversation, and the map
// widget. It replaces the original module-level globals with one explicit
// object.
type Session struct {
	ID uuid.UUID

	mu          sync.Mutex
	logger      *slog.Logger
	cities      city.Service
	weather     weather.Service
	chat        *chat.Conversation
	mapCtrl     *maps.Controller
	screen      types.Screen
	currentCity *types.City
	panels      *types.CityPanels
	clock       *Clock
	// selectToken makes last-write-wins explicit: an async panel refresh is
	// applied only if its token still matches the current selection.
	selectToken uint64
}

// SelectCity sets the current city, refreshes every city-scoped panel
// atomically, resets the chat with a welcome message, recenters the map, and
// switches to the chat screen.
func (s *Session) SelectCity(ctx context.Context, name string) (*types.CityPanels, error) {
	selected, err := s.cities.GetCity(ctx, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.selectToken++
	token := s.selectToken
	s.currentCity = selected
	// Release the prior ticker before creating the replacement.
	if s.clock != nil {
		s.clock.Stop()
	}
	s.clock = StartClock(selected.Timezone)
	s.mu.Unlock()

	if m := metrics.Get(); m != nil {
		m.CitySelectionsTotal.Add(ctx, 1)
	}

	// Fan out to the weather adapter alongside the reference-data lookups;
	// the snapshot is assembled off-lock and published in one step.
	var weatherSnap types.WeatherSnapshot
	var panels *types.CityPanels
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		weatherSnap = s.weather.GetByCity(gctx, selected.Name)
		return nil
	})
	g.Go(func() error {
		panels = &types.CityPanels{
			CityName:   selected.Name,
			MapTitle:   "Exploring " + selected.Name,
			Population: selected.Population,
			Language:   selected.Language,
			Trending:   selected.Trending,
			Events:     selected.Events,
			MapCenter:  types.Coordinate{Latitude: selected.Latitude, Longitude: selected.Longitude},
			MapZoom:    10,
		}
		return nil
	})
	_ = g.Wait()
	panels.Weather = weatherSnap

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectToken != token {
		// A newer selection landed while this refresh was in flight; its
		// result belongs to a stale city and is discarded.
		s.logger.Debug("discarding stale panel refresh", "city", selected.Name)
		return s.panels, nil
	}
	s.panels = panels
	s.chat.Reset(selected.Name)
	s.mapCtrl.CenterOnCity(selected)
	s.screen = types.ScreenChat
	return panels, nil
}

// ShowScreen switches the single visible screen. Navigating anywhere while
// no city is selected is a no-op.
func (s *Session) ShowScreen(name types.Screen) types.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentCity == nil {
		return s.screen
	}
	switch name {
	case types.ScreenCitySelection, types.ScreenChat, types.ScreenExplore, types.ScreenEvents:
		s.screen = name
	}
	return s.screen
}

// Panels returns the last published city-scoped snapshot (nil before the
// first selection).
func (s *Session) Panels() *types.CityPanels {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panels
}

// CurrentCity returns the selected city name, or "" when none is selected.
func (s *Session) CurrentCity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentCity == nil {
		return ""
	}
	return s.currentCity.Name
}

// Screen returns the active screen.
func (s *Session) Screen() types.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// LocalTime returns the clock display for the selected city.
func (s *Session) LocalTime() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clock == nil {
		return "--:-- --"
	}
	return s.clock.Display()
}

// Conversation exposes the chat manager for the chat endpoints.
func (s *Session) Conversation() *chat.Conversation {
	return s.chat
}

// Map exposes the map controller for the map endpoints.
func (s *Session) Map() *maps.Controller {
	return s.mapCtrl
}

// Close releases the clock ticker. Called on session eviction.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clock != nil {
		s.clock.Stop()
		s.clock = nil
	}
}
