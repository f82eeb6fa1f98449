package types

type Screen string

const (
	ScreenCitySelection Screen = "citySelection"
	ScreenChat          Screen = "chat"
	ScreenExplore       Screen = "explore"
	ScreenEvents        Screen = "events"
)

// CityPanels is the full set of city-scoped panel values published together
// after a selection so no partial update is ever visible.
type CityPanels struct {
	CityName   string          `json:"city_name"`
	MapTitle   string          `json:"map_title"`
	Population string          `json:"population"`
	Language   string          `json:"language"`
	Trending   []string        `json:"trending"`
	Events     []Event         `json:"events"`
	Weather    WeatherSnapshot `json:"weather"`
	MapCenter  Coordinate      `json:"map_center"`
	MapZoom    int             `json:"map_zoom"`
}

type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}
