package geo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// ErrLocationNotFound is returned when every resolution strategy has failed.
var ErrLocationNotFound = errors.New("could not determine location")

// strategy is one provider-backed attempt at resolving coordinates. Its
// failures stay internal to the resolver so the next strategy can run.
type strategy struct {
	name    string
	resolve func(ctx context.Context, lat, lon float64) (*Location, error)
}

// Resolver turns coordinates into place names by walking an ordered list of
// geocoding strategies, most detailed first, short-circuiting on the first
// success.
type Resolver struct {
	strategies []strategy
	owm        *OpenWeather
	log        *logrus.Logger
}

// NewResolver wires the strategy chain: Nominatim address-level reverse
// geocoding, then OpenWeatherMap coarse reverse geocoding, then the nearest
// weather station search.
func NewResolver(nominatim *Nominatim, owm *OpenWeather, log *logrus.Logger) *Resolver {
	r := &Resolver{owm: owm, log: log}
	r.strategies = []strategy{
		{name: "nominatim", resolve: nominatim.Reverse},
		{name: "openweather", resolve: owm.Reverse},
		{name: "stations", resolve: r.nearestStation},
	}
	return r
}

// Resolve runs the strategies sequentially and returns the first successful
// location. Individual strategy failures are logged and swallowed; only the
// aggregate failure surfaces.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) (*Location, error) {
	for _, st := range r.strategies {
		loc, err := st.resolve(ctx, lat, lon)
		if err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"strategy": st.name,
				"lat":      lat,
				"lon":      lon,
			}).Debug("geolocation strategy failed")
			continue
		}

		r.log.WithFields(logrus.Fields{
			"city":     loc.City,
			"source":   loc.Source,
			"accuracy": loc.Accuracy,
		}).Info("location resolved")
		return loc, nil
	}

	return nil, ErrLocationNotFound
}

// nearestStation is the last-resort strategy: take the closest city that has
// a weather station and report how far away it is.
func (r *Resolver) nearestStation(ctx context.Context, lat, lon float64) (*Location, error) {
	cities, err := r.owm.FindCities(ctx, lat, lon, 10)
	if err != nil {
		return nil, err
	}
	if len(cities) == 0 {
		return nil, errNoResults
	}

	closest := cities[0]
	return &Location{
		City:        closest.Name,
		Country:     closest.Country,
		CountryCode: closest.Country,
		Lat:         closest.Lat,
		Lon:         closest.Lon,
		DistanceKm:  round1(DistanceKm(lat, lon, closest.Lat, closest.Lon)),
		Source:      "Weather Stations",
		Accuracy:    AccuracyMedium,
	}, nil
}

// NearbyCities returns every city the find endpoint knows within radiusKm of
// the query point, sorted ascending by distance. Zero candidates in range is
// a successful empty result, not an error.
func (r *Resolver) NearbyCities(ctx context.Context, lat, lon, radiusKm float64) ([]NearbyCity, error) {
	found, err := r.owm.FindCities(ctx, lat, lon, 50)
	if err != nil {
		return nil, fmt.Errorf("nearby city search: %w", err)
	}

	cities := make([]NearbyCity, 0, len(found))
	for _, c := range found {
		d := DistanceKm(lat, lon, c.Lat, c.Lon)
		if d > radiusKm {
			continue
		}
		cities = append(cities, NearbyCity{
			City:       c.Name,
			Country:    c.Country,
			Lat:        c.Lat,
			Lon:        c.Lon,
			DistanceKm: round1(d),
		})
	}

	sort.Slice(cities, func(i, j int) bool {
		return cities[i].DistanceKm < cities[j].DistanceKm
	})

	r.log.WithFields(logrus.Fields{
		"count":  len(cities),
		"radius": radiusKm,
	}).Debug("nearby city search complete")
	return cities, nil
}

// SearchCities finds cities by name for autocomplete. limit defaults to 5
// and is capped at 10.
func (r *Resolver) SearchCities(ctx context.Context, query string, limit int) ([]Location, error) {
	if limit < 1 {
		limit = 5
	}
	if limit > 10 {
		limit = 10
	}
	return r.owm.Search(ctx, query, limit)
}
