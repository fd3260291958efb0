package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lumian-ai/sellerchat/internal/log"
)

// OpenMeteo looks up weather through the Open-Meteo geocoding and forecast
// APIs. Both base URLs and the HTTP client are injectable for tests.
type OpenMeteo struct {
	baseURL    string
	geocodeURL string
	httpClient *http.Client
	logger     log.Logger
}

// OpenMeteoConfig configures the Open-Meteo provider. Zero values fall
// back to the public API endpoints and a 10 second timeout.
type OpenMeteoConfig struct {
	BaseURL    string
	GeocodeURL string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewOpenMeteo creates an Open-Meteo backed provider.
func NewOpenMeteo(cfg OpenMeteoConfig, logger log.Logger) *OpenMeteo {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1"
	}
	geocodeURL := cfg.GeocodeURL
	if geocodeURL == "" {
		geocodeURL = "https://geocoding-api.open-meteo.com/v1"
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &OpenMeteo{
		baseURL:    baseURL,
		geocodeURL: geocodeURL,
		httpClient: client,
		logger:     logger,
	}
}

var _ Provider = (*OpenMeteo)(nil)

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
	Daily struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weathercode"`
	} `json:"daily"`
}

// Current resolves the location via geocoding, then fetches current
// conditions and a three-day forecast. All failures map to ErrUnavailable;
// the underlying cause is logged, not returned.
func (p *OpenMeteo) Current(ctx context.Context, location, unit string) (*Data, error) {
	lat, lon, resolved, err := p.geocode(ctx, location)
	if err != nil {
		p.logger.Debug("geocoding failed", "location", location, "error", err)
		return nil, ErrUnavailable
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current_weather", "true")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,weathercode")
	q.Set("forecast_days", "3")
	q.Set("timezone", "auto")
	if unit == UnitFahrenheit {
		q.Set("temperature_unit", UnitFahrenheit)
	}

	var fc forecastResponse
	if err := p.getJSON(ctx, p.baseURL+"/forecast?"+q.Encode(), &fc); err != nil {
		p.logger.Debug("forecast fetch failed", "location", location, "error", err)
		return nil, ErrUnavailable
	}

	observed, _ := time.Parse("2006-01-02T15:04", fc.CurrentWeather.Time)

	data := &Data{
		Location:        resolved,
		Temperature:     fc.CurrentWeather.Temperature,
		TemperatureUnit: unit,
		WindSpeed:       fc.CurrentWeather.WindSpeed,
		Conditions:      describeWeatherCode(fc.CurrentWeather.WeatherCode),
		ObservationTime: observed,
	}
	for i := range fc.Daily.Time {
		if i >= len(fc.Daily.TempMax) || i >= len(fc.Daily.TempMin) {
			break
		}
		day := ForecastDay{
			Date: fc.Daily.Time[i],
			High: fc.Daily.TempMax[i],
			Low:  fc.Daily.TempMin[i],
		}
		if i < len(fc.Daily.WeatherCode) {
			day.Conditions = describeWeatherCode(fc.Daily.WeatherCode[i])
		}
		data.Forecast = append(data.Forecast, day)
	}
	return data, nil
}

// geocode resolves a location name to coordinates and a display name.
func (p *OpenMeteo) geocode(ctx context.Context, location string) (lat, lon float64, name string, err error) {
	q := url.Values{}
	q.Set("name", location)
	q.Set("count", "1")

	var gc geocodeResponse
	if err := p.getJSON(ctx, p.geocodeURL+"/search?"+q.Encode(), &gc); err != nil {
		return 0, 0, "", err
	}
	if len(gc.Results) == 0 {
		return 0, 0, "", fmt.Errorf("no geocoding results for %q", location)
	}

	r := gc.Results[0]
	name = r.Name
	if r.Country != "" {
		name = r.Name + ", " + r.Country
	}
	return r.Latitude, r.Longitude, name, nil
}

func (p *OpenMeteo) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			p.logger.Debug("closing response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// describeWeatherCode maps WMO weather interpretation codes to short
// human-readable descriptions.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code <= 3:
		return "Partly cloudy"
	case code <= 48:
		return "Fog"
	case code <= 57:
		return "Drizzle"
	case code <= 67:
		return "Rain"
	case code <= 77:
		return "Snow"
	case code <= 82:
		return "Rain showers"
	case code <= 86:
		return "Snow showers"
	default:
		return "Thunderstorm"
	}
}
