package maps

import (
	"sync"

	"github.com/mahnouor1/streetly/internal/types"
)

type MarkerKind string

const (
	MarkerCity       MarkerKind = "city"
	MarkerPrediction MarkerKind = "prediction"
	MarkerDisaster   MarkerKind = "disaster"
)

type Marker struct {
	ID       string            `json:"id"`
	Kind     MarkerKind        `json:"kind"`
	Title    string            `json:"title"`
	Position types.Coordinate  `json:"position"`
	Style    types.MarkerStyle `json:"style"`
	Info     string            `json:"info,omitempty"`
}

type Popup struct {
	Content  string           `json:"content"`
	Position types.Coordinate `json:"position"`
}

type Route struct {
	Origin      string             `json:"origin"`
	Destination string             `json:"destination"`
	Distance    string             `json:"distance"`
	Duration    string             `json:"duration"`
	EndLocation types.Coordinate   `json:"end_location"`
	Path        []types.Coordinate `json:"path,omitempty"`
}

// Renderer is the capability surface the controller needs from a concrete
// mapping provider, so the provider is swappable and testable via a fake.
type Renderer interface {
	RenderMap(center types.Coordinate, zoom int)
	PlaceMarker(m Marker)
	ClearMarkers(kind MarkerKind)
	DrawRoute(r Route)
	ShowPopup(p Popup)
	OpenInfoPanel(markerID string)
}

// MapState is a full snapshot of the rendered widget, served as JSON.
type MapState struct {
	Center    types.Coordinate `json:"center"`
	Zoom      int              `json:"zoom"`
	Markers   []Marker         `json:"markers"`
	Route     *Route           `json:"route,omitempty"`
	Popup     *Popup           `json:"popup,omitempty"`
	OpenPanel string           `json:"open_panel,omitempty"`
}

var _ Renderer = (*StateRenderer)(nil)

// StateRenderer records draw operations in memory; its snapshot backs the
// map-state endpoint. Holding the open panel in a single slot enforces the
// one-open-panel-at-a-time rule.
type StateRenderer struct {
	mu    sync.Mutex
	state MapState
}

func NewStateRenderer() *StateRenderer {
	return &StateRenderer{}
}

func (r *StateRenderer) RenderMap(center types.Coordinate, zoom int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Center = center
	r.state.Zoom = zoom
}

func (r *StateRenderer) PlaceMarker(m Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.Kind == MarkerCity {
		// The city marker is a single slot that moves with the selection.
		for i := range r.state.Markers {
			if r.state.Markers[i].Kind == MarkerCity {
				r.state.Markers[i] = m
				return
			}
		}
	}
	r.state.Markers = append(r.state.Markers, m)
}

func (r *StateRenderer) ClearMarkers(kind MarkerKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.state.Markers[:0]
	for _, m := range r.state.Markers {
		if m.Kind != kind {
			kept = append(kept, m)
		} else if r.state.OpenPanel == m.ID {
			r.state.OpenPanel = ""
		}
	}
	r.state.Markers = kept
}

func (r *StateRenderer) DrawRoute(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Route = &route
}

func (r *StateRenderer) ShowPopup(p Popup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Popup = &p
}

func (r *StateRenderer) OpenInfoPanel(markerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.OpenPanel = markerID
}

func (r *StateRenderer) Snapshot() MapState {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.state
	snap.Markers = append([]Marker(nil), r.state.Markers...)
	return snap
}
