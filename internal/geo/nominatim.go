package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
)

// nominatimZoom requests suburb/town granularity from the reverse endpoint.
const nominatimZoom = 14

var errNoAddress = errors.New("no address data in response")

// Nominatim is the OpenStreetMap reverse-geocoding client. It is the most
// detailed source available, down to suburbs and neighbourhoods.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
}

// NewNominatim creates a Nominatim client. The service requires a descriptive
// User-Agent on every request.
func NewNominatim(client *http.Client, baseURL, userAgent string) *Nominatim {
	return &Nominatim{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    client,
		circuit:   newBreaker("nominatim"),
	}
}

// Reverse resolves coordinates to the most specific place name Nominatim
// knows, preferring suburb over neighbourhood over town over city over
// municipality over county over state.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("format", "json")
	values.Set("addressdetails", "1")
	values.Set("zoom", strconv.Itoa(nominatimZoom))

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/reverse?%s", n.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.userAgent)

	var payload struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
		Address     struct {
			Suburb        string `json:"suburb"`
			Neighbourhood string `json:"neighbourhood"`
			Town          string `json:"town"`
			City          string `json:"city"`
			Municipality  string `json:"municipality"`
			County        string `json:"county"`
			State         string `json:"state"`
			Country       string `json:"country"`
			CountryCode   string `json:"country_code"`
		} `json:"address"`
	}

	if err := getJSON(ctx, n.client, n.circuit, req, &payload); err != nil {
		return nil, err
	}

	addr := payload.Address
	city := firstNonEmpty(addr.Suburb, addr.Neighbourhood, addr.Town, addr.City, addr.Municipality, addr.County, addr.State)
	if city == "" {
		return nil, errNoAddress
	}

	loc := &Location{
		City:        city,
		Suburb:      addr.Suburb,
		Town:        addr.Town,
		State:       addr.State,
		Country:     addr.Country,
		CountryCode: strings.ToUpper(addr.CountryCode),
		Lat:         parseCoord(payload.Lat, lat),
		Lon:         parseCoord(payload.Lon, lon),
		DisplayName: payload.DisplayName,
		Source:      "OpenStreetMap",
		Accuracy:    AccuracyHigh,
	}
	return loc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseCoord falls back to the query coordinate when Nominatim's string
// coordinate does not parse.
func parseCoord(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}
