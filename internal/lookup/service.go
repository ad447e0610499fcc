package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-lookup-service/internal/geo"
	"github.com/i474232898/weather-lookup-service/internal/weather"
)

const (
	// nearbyRadiusKm bounds the optional nearby-city list on a successful lookup.
	nearbyRadiusKm = 30
	// alternativesRadiusKm bounds the fallback search when the resolved place
	// has no weather data.
	alternativesRadiusKm = 50

	maxNearbyAttached = 5
	maxSuggestions    = 10
)

// ErrMissingCoordinates is returned when a coordinate is zero/unset. Zero is
// not a valid Earth location for this system.
var ErrMissingCoordinates = errors.New("both latitude and longitude are required")

// NoWeatherError reports that the resolved place has no matching weather
// data, carrying nearby alternatives the caller can offer instead.
type NoWeatherError struct {
	City       string
	Location   *geo.Location
	Nearby     []geo.NearbyCity
	Suggestion string
}

func (e *NoWeatherError) Error() string {
	return fmt.Sprintf("no weather data for %s", e.City)
}

// Geolocator is the resolver surface the orchestrator composes over.
type Geolocator interface {
	Resolve(ctx context.Context, lat, lon float64) (*geo.Location, error)
	NearbyCities(ctx context.Context, lat, lon, radiusKm float64) ([]geo.NearbyCity, error)
}

// WeatherFetcher is the weather engine surface the orchestrator composes over.
type WeatherFetcher interface {
	CurrentWeather(ctx context.Context, city string) (*weather.Current, error)
}

// Result is a weather result enriched with how the location was detected.
type Result struct {
	weather.Current
	LocationDetected  bool             `json:"location_detected"`
	DetectedFrom      string           `json:"detected_from"`
	DetectionAccuracy string           `json:"detection_accuracy"`
	DetectionSource   string           `json:"detection_source"`
	Suburb            string           `json:"suburb"`
	State             string           `json:"state"`
	DisplayName       string           `json:"display_name"`
	Coordinates       weather.Coord    `json:"coordinates"`
	NearbyCities      []geo.NearbyCity `json:"nearby_cities,omitempty"`
}

// Service answers "what is the weather near these coordinates" by composing
// the geolocation resolver with the weather engine.
type Service struct {
	geo     Geolocator
	weather WeatherFetcher
	log     *logrus.Logger
}

func NewService(geolocator Geolocator, fetcher WeatherFetcher, log *logrus.Logger) *Service {
	return &Service{
		geo:     geolocator,
		weather: fetcher,
		log:     log,
	}
}

// WeatherNear resolves the coordinates to a city and fetches its weather.
// When the resolved place has no weather data, nearby cities within 50 km are
// offered through a NoWeatherError instead. Resolver failures propagate as-is.
func (s *Service) WeatherNear(ctx context.Context, lat, lon float64, includeNearby bool) (*Result, error) {
	if lat == 0 || lon == 0 {
		return nil, ErrMissingCoordinates
	}

	loc, err := s.geo.Resolve(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	w, err := s.weather.CurrentWeather(ctx, loc.City)
	if err != nil {
		return nil, s.withAlternatives(ctx, lat, lon, loc, err)
	}

	res := &Result{
		Current:           *w,
		LocationDetected:  true,
		DetectedFrom:      "gps",
		DetectionAccuracy: loc.Accuracy,
		DetectionSource:   loc.Source,
		Suburb:            loc.Suburb,
		State:             loc.State,
		DisplayName:       loc.DisplayName,
		Coordinates:       weather.Coord{Lat: lat, Lon: lon},
	}

	if includeNearby {
		nearby, err := s.geo.NearbyCities(ctx, lat, lon, nearbyRadiusKm)
		if err != nil {
			// The lookup already succeeded; a failed nearby search only costs
			// the extra list.
			s.log.WithError(err).Warn("nearby city search failed")
		} else {
			if len(nearby) > maxNearbyAttached {
				nearby = nearby[:maxNearbyAttached]
			}
			res.NearbyCities = nearby
		}
	}

	return res, nil
}

// withAlternatives upgrades a weather failure into a NoWeatherError when
// cities with weather data exist nearby; otherwise the original error stands.
func (s *Service) withAlternatives(ctx context.Context, lat, lon float64, loc *geo.Location, weatherErr error) error {
	s.log.WithError(weatherErr).WithField("city", loc.City).Warn("no weather for resolved city, searching alternatives")

	nearby, err := s.geo.NearbyCities(ctx, lat, lon, alternativesRadiusKm)
	if err != nil || len(nearby) == 0 {
		return weatherErr
	}

	if len(nearby) > maxSuggestions {
		nearby = nearby[:maxSuggestions]
	}
	return &NoWeatherError{
		City:       loc.City,
		Location:   loc,
		Nearby:     nearby,
		Suggestion: fmt.Sprintf("Try: %s", nearby[0].City),
	}
}
