package types

// WeatherSnapshot holds a resolved temperature and condition for a city or a
// coordinate pair. Temperature is a string so the "22" fallback and rounded
// live values share one shape; it is recomputed on demand, never persisted.
type WeatherSnapshot struct {
	CityName    string `json:"city_name,omitempty"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
}
