package weather

// Coord is a latitude/longitude pair as reported by the weather provider.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Current is the normalized current-weather view for a city.
// Temperature fields are rounded to one decimal and the description is
// title-cased before the value leaves the provider client.
type Current struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	WindDeg     int     `json:"wind_deg"`
	Clouds      int     `json:"clouds"`
	Visibility  int     `json:"visibility"`
	Sunrise     int64   `json:"sunrise"`
	Sunset      int64   `json:"sunset"`
	Timezone    int     `json:"timezone"`
	Timestamp   int64   `json:"timestamp"`
	Coord       Coord   `json:"coord"`
	FromCache   bool    `json:"from_cache"`
}

// ForecastDay is a single daily entry of a multi-day forecast.
type ForecastDay struct {
	Date        int64   `json:"date"`
	DateText    string  `json:"date_text"`
	Temperature float64 `json:"temperature"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Clouds      int     `json:"clouds"`
}

// Forecast holds at most one entry per calendar date, ordered by date
// ascending, never longer than the requested day count.
type Forecast struct {
	City      string        `json:"city"`
	Country   string        `json:"country"`
	Days      []ForecastDay `json:"forecasts"`
	DayCount  int           `json:"forecast_count"`
	FromCache bool          `json:"from_cache"`
}
