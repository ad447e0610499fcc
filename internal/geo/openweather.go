package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"
)

var errNoResults = errors.New("no results in response")

// OpenWeather wraps the OpenWeatherMap geocoding endpoints: coarse reverse
// geocoding, forward city search, and the nearest-city "find" search.
type OpenWeather struct {
	apiKey  string
	geoURL  string
	dataURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeather creates the geocoding client. geoURL is the geo API root
// (e.g. https://api.openweathermap.org/geo/1.0), dataURL the data API root
// hosting the find endpoint (e.g. https://api.openweathermap.org/data/2.5).
func NewOpenWeather(client *http.Client, geoURL, dataURL, apiKey string) *OpenWeather {
	return &OpenWeather{
		apiKey:  apiKey,
		geoURL:  geoURL,
		dataURL: dataURL,
		client:  client,
		circuit: newBreaker("openweather-geo"),
	}
}

// Reverse resolves coordinates via the coarse reverse-geocoding endpoint,
// requesting up to 5 candidates and taking the closest.
func (o *OpenWeather) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	values := o.values()
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("limit", "5")

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/reverse?%s", o.geoURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	var results []owmPlace
	if err := getJSON(ctx, o.client, o.circuit, req, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errNoResults
	}

	first := results[0]
	return &Location{
		City:        first.Name,
		State:       first.State,
		Country:     first.Country,
		CountryCode: first.Country,
		Lat:         first.Lat,
		Lon:         first.Lon,
		Source:      "OpenWeatherMap",
		Accuracy:    AccuracyMedium,
	}, nil
}

// Search finds cities by name via the direct geocoding endpoint, for
// autocomplete-style lookups.
func (o *OpenWeather) Search(ctx context.Context, query string, limit int) ([]Location, error) {
	values := o.values()
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/direct?%s", o.geoURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	var results []owmPlace
	if err := getJSON(ctx, o.client, o.circuit, req, &results); err != nil {
		return nil, fmt.Errorf("city search: %w", err)
	}

	locations := make([]Location, 0, len(results))
	for _, r := range results {
		locations = append(locations, Location{
			City:        r.Name,
			State:       r.State,
			Country:     r.Country,
			CountryCode: r.Country,
			Lat:         r.Lat,
			Lon:         r.Lon,
			Source:      "OpenWeatherMap",
			Accuracy:    AccuracyMedium,
		})
	}
	return locations, nil
}

// FindCities queries the nearest-city search endpoint for up to count
// candidate cities around a point, in provider (closest-first) order.
func (o *OpenWeather) FindCities(ctx context.Context, lat, lon float64, count int) ([]FoundCity, error) {
	values := o.values()
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("cnt", strconv.Itoa(count))

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/find?%s", o.dataURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		List []struct {
			Name string `json:"name"`
			Sys  struct {
				Country string `json:"country"`
			} `json:"sys"`
			Coord struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"coord"`
		} `json:"list"`
	}

	if err := getJSON(ctx, o.client, o.circuit, req, &payload); err != nil {
		return nil, err
	}

	cities := make([]FoundCity, 0, len(payload.List))
	for _, item := range payload.List {
		cities = append(cities, FoundCity{
			Name:    item.Name,
			Country: item.Sys.Country,
			Lat:     item.Coord.Lat,
			Lon:     item.Coord.Lon,
		})
	}
	return cities, nil
}

func (o *OpenWeather) values() url.Values {
	values := url.Values{}
	values.Set("appid", o.apiKey)
	return values
}

type owmPlace struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
