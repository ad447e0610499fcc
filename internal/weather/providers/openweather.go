package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/weather-lookup-service/internal/weather"
)

// maxForecastEntries is the provider cap on 3-hour forecast intervals.
const maxForecastEntries = 40

// OpenWeather is the OpenWeatherMap client for the current-weather and
// forecast endpoints. All requests use metric units.
type OpenWeather struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeather creates an OpenWeatherMap client. baseURL is the data API
// root (e.g. https://api.openweathermap.org/data/2.5).
func NewOpenWeather(client *http.Client, baseURL, apiKey string) *OpenWeather {
	return &OpenWeather{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: newBreaker("openweather"),
	}
}

// Current fetches and normalizes current weather for a city.
func (o *OpenWeather) Current(ctx context.Context, city string) (*weather.Current, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", o.apiKey)
	values.Set("units", "metric")

	resp, err := o.get(ctx, o.baseURL+"/weather", values)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var payload struct {
		Name string `json:"name"`
		Dt   int64  `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Humidity  int     `json:"humidity"`
			Pressure  int     `json:"pressure"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   int     `json:"deg"`
		} `json:"wind"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
		Sys struct {
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Visibility int `json:"visibility"`
		Timezone   int `json:"timezone"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding current weather: %v", weather.ErrConnection, err)
	}

	w := &weather.Current{
		City:        payload.Name,
		Country:     payload.Sys.Country,
		Temperature: round1(payload.Main.Temp),
		FeelsLike:   round1(payload.Main.FeelsLike),
		TempMin:     round1(payload.Main.TempMin),
		TempMax:     round1(payload.Main.TempMax),
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		WindDeg:     payload.Wind.Deg,
		Clouds:      payload.Clouds.All,
		Visibility:  payload.Visibility,
		Sunrise:     payload.Sys.Sunrise,
		Sunset:      payload.Sys.Sunset,
		Timezone:    payload.Timezone,
		Timestamp:   payload.Dt,
		Coord:       weather.Coord{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon},
	}
	if len(payload.Weather) > 0 {
		w.Description = titleCase(payload.Weather[0].Description)
		w.Icon = payload.Weather[0].Icon
	}

	return w, nil
}

// Forecast fetches the 3-hour-interval forecast and reduces it to one entry
// per calendar date, in provider order, stopping once days entries are
// collected.
func (o *OpenWeather) Forecast(ctx context.Context, city string, days int) (*weather.Forecast, error) {
	cnt := days * 8
	if cnt > maxForecastEntries {
		cnt = maxForecastEntries
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", o.apiKey)
	values.Set("units", "metric")
	values.Set("cnt", fmt.Sprintf("%d", cnt))

	resp, err := o.get(ctx, o.baseURL+"/forecast", values)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var payload struct {
		City struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"city"`
		List []struct {
			Dt    int64  `json:"dt"`
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp     float64 `json:"temp"`
				TempMin  float64 `json:"temp_min"`
				TempMax  float64 `json:"temp_max"`
				Humidity int     `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Clouds struct {
				All int `json:"all"`
			} `json:"clouds"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding forecast: %v", weather.ErrConnection, err)
	}

	f := &weather.Forecast{
		City:    payload.City.Name,
		Country: payload.City.Country,
	}

	seen := make(map[string]bool)
	for _, item := range payload.List {
		date := time.Unix(item.Dt, 0).UTC().Format("2006-01-02")
		if seen[date] {
			continue
		}
		seen[date] = true

		day := weather.ForecastDay{
			Date:        item.Dt,
			DateText:    item.DtTxt,
			Temperature: round1(item.Main.Temp),
			TempMin:     round1(item.Main.TempMin),
			TempMax:     round1(item.Main.TempMax),
			Humidity:    item.Main.Humidity,
			WindSpeed:   item.Wind.Speed,
			Clouds:      item.Clouds.All,
		}
		if len(item.Weather) > 0 {
			day.Description = titleCase(item.Weather[0].Description)
			day.Icon = item.Weather[0].Icon
		}

		f.Days = append(f.Days, day)
		if len(f.Days) >= days {
			break
		}
	}
	f.DayCount = len(f.Days)

	return f, nil
}

func (o *OpenWeather) get(ctx context.Context, endpoint string, values url.Values) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", endpoint, values.Encode()), nil)
	if err != nil {
		return nil, err
	}
	return doRequest(ctx, o.client, o.circuit, req)
}

func mapStatus(code int) error {
	switch {
	case code == http.StatusNotFound:
		return weather.ErrCityNotFound
	case code == http.StatusUnauthorized:
		return weather.ErrInvalidAPIKey
	case code < 200 || code >= 300:
		return &weather.StatusError{StatusCode: code}
	}
	return nil
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
