package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumian-ai/sellerchat/internal/log"
)

func TestNormalizeUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "", want: UnitCelsius},
		{input: "c", want: UnitCelsius},
		{input: "Celsius", want: UnitCelsius},
		{input: "  F  ", want: UnitFahrenheit},
		{input: "FAHRENHEIT", want: UnitFahrenheit},
		{input: "kelvin", wantErr: true},
		{input: "hot", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeUnit(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidUnit) {
					t.Errorf("NormalizeUnit(%q) error = %v, want ErrInvalidUnit", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeUnit(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeUnit(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

const geocodeBody = `{"results":[{"name":"Lisbon","country":"Portugal","latitude":38.72,"longitude":-9.14}]}`

const forecastBody = `{
	"current_weather":{"temperature":21.4,"windspeed":12.3,"weathercode":2,"time":"2026-08-29T14:00"},
	"daily":{
		"time":["2026-08-29","2026-08-30","2026-08-31"],
		"temperature_2m_max":[24.1,25.0,23.2],
		"temperature_2m_min":[17.3,18.0,16.9],
		"weathercode":[0,2,61]
	}
}`

func newTestProvider(t *testing.T, geocodeHandler, forecastHandler http.HandlerFunc) *OpenMeteo {
	t.Helper()

	geocodeSrv := httptest.NewServer(geocodeHandler)
	t.Cleanup(geocodeSrv.Close)
	forecastSrv := httptest.NewServer(forecastHandler)
	t.Cleanup(forecastSrv.Close)

	return NewOpenMeteo(OpenMeteoConfig{
		BaseURL:    forecastSrv.URL,
		GeocodeURL: geocodeSrv.URL,
	}, log.NewNop())
}

func TestOpenMeteoCurrent(t *testing.T) {
	t.Parallel()

	var forecastQuery string
	p := newTestProvider(t,
		func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("name"); got != "Lisbon" {
				t.Errorf("geocode name = %q, want Lisbon", got)
			}
			_, _ = w.Write([]byte(geocodeBody))
		},
		func(w http.ResponseWriter, r *http.Request) {
			forecastQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(forecastBody))
		},
	)

	data, err := p.Current(context.Background(), "Lisbon", UnitCelsius)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	if data.Location != "Lisbon, Portugal" {
		t.Errorf("Location = %q, want %q", data.Location, "Lisbon, Portugal")
	}
	if data.Temperature != 21.4 || data.Conditions != "Partly cloudy" {
		t.Errorf("current = %.1f %q", data.Temperature, data.Conditions)
	}
	if data.ObservationTime.IsZero() {
		t.Error("ObservationTime not parsed")
	}
	if len(data.Forecast) != 3 {
		t.Fatalf("forecast days = %d, want 3", len(data.Forecast))
	}
	if data.Forecast[2].Conditions != "Rain" {
		t.Errorf("forecast[2] = %q, want Rain (code 61)", data.Forecast[2].Conditions)
	}
	if strings.Contains(forecastQuery, "temperature_unit") {
		t.Errorf("celsius request should not set temperature_unit: %q", forecastQuery)
	}
}

func TestOpenMeteoCurrent_FahrenheitQuery(t *testing.T) {
	t.Parallel()

	var forecastQuery string
	p := newTestProvider(t,
		func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(geocodeBody)) },
		func(w http.ResponseWriter, r *http.Request) {
			forecastQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(forecastBody))
		},
	)

	data, err := p.Current(context.Background(), "Lisbon", UnitFahrenheit)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if data.TemperatureUnit != UnitFahrenheit {
		t.Errorf("TemperatureUnit = %q", data.TemperatureUnit)
	}
	if !strings.Contains(forecastQuery, "temperature_unit=fahrenheit") {
		t.Errorf("fahrenheit request missing unit parameter: %q", forecastQuery)
	}
}

func TestOpenMeteoCurrent_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		geocode  http.HandlerFunc
		forecast http.HandlerFunc
	}{
		{
			name:     "no geocoding results",
			geocode:  func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"results":[]}`)) },
			forecast: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(forecastBody)) },
		},
		{
			name:     "geocode server error",
			geocode:  func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			forecast: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(forecastBody)) },
		},
		{
			name:     "forecast server error",
			geocode:  func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(geocodeBody)) },
			forecast: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		},
		{
			name:     "forecast malformed body",
			geocode:  func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(geocodeBody)) },
			forecast: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`not json`)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := newTestProvider(t, tt.geocode, tt.forecast)
			_, err := p.Current(context.Background(), "Lisbon", UnitCelsius)
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("Current() error = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestDescribeWeatherCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want string
	}{
		{0, "Clear sky"},
		{2, "Partly cloudy"},
		{45, "Fog"},
		{55, "Drizzle"},
		{63, "Rain"},
		{71, "Snow"},
		{80, "Rain showers"},
		{85, "Snow showers"},
		{95, "Thunderstorm"},
	}
	for _, tt := range tests {
		if got := describeWeatherCode(tt.code); got != tt.want {
			t.Errorf("describeWeatherCode(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
