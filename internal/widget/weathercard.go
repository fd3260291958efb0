package widget

import (
	"fmt"
	"strings"

	"github.com/lumian-ai/sellerchat/internal/weather"
)

// unitSymbol maps a normalized temperature unit to its display symbol.
func unitSymbol(unit string) string {
	if unit == weather.UnitFahrenheit {
		return "°F"
	}
	return "°C"
}

// WeatherCard builds the weather dashboard card: current conditions and
// the upcoming forecast.
func WeatherCard(data *weather.Data) *Node {
	symbol := unitSymbol(data.TemperatureUnit)

	current := &Node{
		Kind:    KindBox,
		Padding: 5,
		Children: []*Node{
			Col(2,
				Text(fmt.Sprintf("%.0f%s", data.Temperature, symbol), "xl", "semibold", "primary"),
				Text(data.Conditions, "sm", "", "secondary"),
				Text(fmt.Sprintf("Wind %.0f km/h", data.WindSpeed), "xs", "", "tertiary"),
			),
		},
	}

	children := []*Node{header(data.Location), current}

	if len(data.Forecast) > 0 {
		rows := make([]*Node, 0, len(data.Forecast))
		for _, day := range data.Forecast {
			rows = append(rows, &Node{
				Kind:    KindRow,
				Justify: "between",
				Align:   "center",
				Children: []*Node{
					Text(day.Date, "sm", "medium", "primary"),
					Text(day.Conditions, "sm", "", "secondary"),
					Text(fmt.Sprintf("%.0f%s / %.0f%s", day.High, symbol, day.Low, symbol), "sm", "", "secondary"),
				},
			})
		}
		children = append(children, &Node{
			Kind:     KindBox,
			Padding:  5,
			Children: []*Node{Col(2, rows...)},
		})
	}

	return &Node{
		Kind:     KindCard,
		Key:      "weather",
		Children: children,
	}
}

// WeatherCopyText generates the plain-text fallback for the weather card.
func WeatherCopyText(data *weather.Data) string {
	symbol := unitSymbol(data.TemperatureUnit)

	lines := []string{fmt.Sprintf("Current weather in %s: %.0f%s, %s.",
		data.Location, data.Temperature, symbol, data.Conditions)}

	for _, day := range data.Forecast {
		lines = append(lines, fmt.Sprintf("%s: %s, high %.0f%s, low %.0f%s",
			day.Date, day.Conditions, day.High, symbol, day.Low, symbol))
	}

	return strings.Join(lines, "\n")
}
