package types

// City is a static reference record for a supported destination. Cities are
// never created or destroyed at runtime, only looked up by name.
type City struct {
	Name       string   `json:"name"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Timezone   string   `json:"timezone"`
	Population string   `json:"population"`
	Language   string   `json:"language"`
	Trending   []string `json:"trending"`
	Events     []Event  `json:"events"`
}

// Event is a read-only record owned by its city.
type Event struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Image       string `json:"image"`
}
