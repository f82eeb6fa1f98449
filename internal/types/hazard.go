package types

type HazardType string

const (
	HazardEarthquake HazardType = "earthquake"
	HazardFlood      HazardType = "flood"
)

type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Prediction is a model-generated hazard forecast for a named location.
// Fetched fresh on every prediction request and rendered as transient markers.
type Prediction struct {
	Type        HazardType `json:"type"`
	Location    string     `json:"location"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Risk        RiskTier   `json:"risk"`
	Probability float64    `json:"probability"`
	Confidence  float64    `json:"confidence"`
}

// DisasterEvent is an active, observed hazard event.
type DisasterEvent struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Latitude  float64  `json:"lat"`
	Longitude float64  `json:"lon"`
	Severity  string   `json:"severity,omitempty"`
	Magnitude *float64 `json:"magnitude,omitempty"`
}

// MarkerStyle is the deterministic color/size pair a risk tier maps to.
type MarkerStyle struct {
	Color string `json:"color"`
	Size  int    `json:"size"`
}
