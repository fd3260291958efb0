// Package weather provides current-conditions lookup for the weather tool.
package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Temperature units accepted by NormalizeUnit.
const (
	UnitCelsius    = "celsius"
	UnitFahrenheit = "fahrenheit"
)

var (
	// ErrInvalidUnit indicates an unsupported temperature unit.
	ErrInvalidUnit = errors.New("invalid temperature unit")

	// ErrUnavailable indicates the provider could not produce data for the
	// requested location. Its text is surfaced verbatim to the model.
	ErrUnavailable = errors.New("Weather data is currently unavailable for that location.")
)

// NormalizeUnit canonicalizes a requested temperature unit.
// Empty input defaults to celsius; single-letter abbreviations are
// accepted; anything else is an error.
func NormalizeUnit(unit string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "c", UnitCelsius:
		return UnitCelsius, nil
	case "f", UnitFahrenheit:
		return UnitFahrenheit, nil
	default:
		return "", fmt.Errorf("%w: %q (expected celsius or fahrenheit)", ErrInvalidUnit, unit)
	}
}

// ForecastDay is a single day of the upcoming forecast.
type ForecastDay struct {
	Date       string  `json:"date"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Conditions string  `json:"conditions"`
}

// Data holds current conditions and a short forecast for a location.
type Data struct {
	Location        string        `json:"location"`
	Temperature     float64       `json:"temperature"`
	TemperatureUnit string        `json:"temperature_unit"`
	WindSpeed       float64       `json:"wind_speed"`
	Conditions      string        `json:"conditions"`
	ObservationTime time.Time     `json:"observation_time"`
	Forecast        []ForecastDay `json:"forecast,omitempty"`
}

// Provider retrieves weather data for a location. unit is one of the
// normalized units returned by NormalizeUnit.
type Provider interface {
	Current(ctx context.Context, location, unit string) (*Data, error)
}
