package tools

import (
	"time"

	"github.com/firebase/genkit/go/ai"

	"github.com/lumian-ai/sellerchat/internal/turn"
	"github.com/lumian-ai/sellerchat/internal/weather"
	"github.com/lumian-ai/sellerchat/internal/widget"
)

// GetWeatherInput names the location and optional temperature unit.
type GetWeatherInput struct {
	Location string `json:"location" jsonschema_description:"City or place name to look up"`
	Unit     string `json:"unit,omitempty" jsonschema_description:"Temperature unit, celsius or fahrenheit (default celsius)"`
}

// GetWeatherOutput summarizes the lookup for the model; the details are
// in the streamed dashboard widget.
type GetWeatherOutput struct {
	Location   string     `json:"location"`
	Unit       string     `json:"unit"`
	ObservedAt string     `json:"observed_at,omitempty"`
	Error      *ToolError `json:"error,omitempty"`
}

func (o *GetWeatherOutput) toolError() *ToolError {
	if o == nil {
		return nil
	}
	return o.Error
}

// GetWeather looks up current conditions, streams a weather dashboard
// widget, and returns a short summary to the model. Bad units and
// provider failures go back to the model in the output; only context
// cancellation returns a Go error.
func (k *Kit) GetWeather(ctx *ai.ToolContext, input GetWeatherInput) (*GetWeatherOutput, error) {
	tc := turn.FromContext(ctx.Context)
	if tc == nil {
		return nil, ErrNoActiveTurn
	}

	unit, err := weather.NormalizeUnit(input.Unit)
	if err != nil {
		k.logger.Warn("invalid weather unit", "unit", input.Unit, "error", err)
		return &GetWeatherOutput{Location: input.Location, Error: &ToolError{
			ErrorType: "InvalidUnit",
			Message:   err.Error(),
		}}, nil
	}

	data, err := k.weather.Current(ctx.Context, input.Location, unit)
	if err != nil {
		if ctx.Context.Err() != nil {
			return nil, err
		}
		k.logger.Warn("weather lookup failed", "location", input.Location, "error", err)
		return &GetWeatherOutput{Location: input.Location, Unit: unit, Error: &ToolError{
			ErrorType: "WeatherUnavailable",
			Message:   weather.ErrUnavailable.Error(),
		}}, nil
	}

	root := widget.WeatherCard(data)
	copyText := widget.WeatherCopyText(data)
	if err := tc.StreamWidget(ctx.Context, root, copyText); err != nil {
		if ctx.Context.Err() != nil {
			return nil, err
		}
		k.logger.Error("streaming weather widget", "thread_id", tc.Thread().ID, "error", err)
		return &GetWeatherOutput{Location: data.Location, Unit: unit, Error: &ToolError{
			ErrorType: "WeatherUnavailable",
			Message:   weather.ErrUnavailable.Error(),
		}}, nil
	}

	observed := ""
	if !data.ObservationTime.IsZero() {
		observed = data.ObservationTime.Format(time.RFC3339)
	}

	return &GetWeatherOutput{
		Location:   data.Location,
		Unit:       unit,
		ObservedAt: observed,
	}, nil
}
