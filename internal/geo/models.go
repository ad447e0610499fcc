package geo

// Accuracy tags on a resolved location.
const (
	AccuracyHigh   = "high"
	AccuracyMedium = "medium"
)

// Location is a place resolved from a coordinate pair. Source records which
// provider produced it.
type Location struct {
	City        string  `json:"city"`
	Suburb      string  `json:"suburb,omitempty"`
	Town        string  `json:"town,omitempty"`
	State       string  `json:"state,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Lat         float64 `json:"latitude"`
	Lon         float64 `json:"longitude"`
	DisplayName string  `json:"display_name,omitempty"`
	DistanceKm  float64 `json:"distance,omitempty"`
	Source      string  `json:"source"`
	Accuracy    string  `json:"accuracy"`
}

// NearbyCity is a city within a requested radius of a query point, with its
// great-circle distance rounded to one decimal.
type NearbyCity struct {
	City       string  `json:"city"`
	Country    string  `json:"country"`
	Lat        float64 `json:"latitude"`
	Lon        float64 `json:"longitude"`
	DistanceKm float64 `json:"distance"`
}

// FoundCity is a raw candidate from the nearest-city search endpoint.
type FoundCity struct {
	Name    string
	Country string
	Lat     float64
	Lon     float64
}
