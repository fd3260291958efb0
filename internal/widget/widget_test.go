package widget

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lumian-ai/sellerchat/internal/sop"
	"github.com/lumian-ai/sellerchat/internal/weather"
)

func TestGallery(t *testing.T) {
	t.Parallel()

	root := Gallery([]string{"https://img.example/a.png", "https://img.example/b.png"})
	if root.Kind != KindCard || root.Key != "reference-images" {
		t.Errorf("Gallery() root = %s/%s, want Card/reference-images", root.Kind, root.Key)
	}
	if len(root.Children) != 2 {
		t.Fatalf("Gallery() children = %d, want header + images section", len(root.Children))
	}

	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal(gallery) error = %v", err)
	}
	s := string(data)
	for _, want := range []string{`"type":"Card"`, "Reference Image 1", "Reference Image 2", "https://img.example/b.png"} {
		if !strings.Contains(s, want) {
			t.Errorf("Gallery() JSON missing %q", want)
		}
	}
}

func TestGalleryCopyText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		urls []string
		want string
	}{
		{name: "none", urls: nil, want: "No reference images available."},
		{name: "one", urls: []string{"a"}, want: "Reference Image 1 is displayed above for visual guidance."},
		{name: "several", urls: []string{"a", "b", "c"}, want: "Reference Images 1-3 are displayed above for visual guidance."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GalleryCopyText(tt.urls); got != tt.want {
				t.Errorf("GalleryCopyText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGuideCopyText(t *testing.T) {
	t.Parallel()

	steps := []GuideStep{
		{StepNumber: "1", Title: "Open settings", Description: "Go to account settings.", ImageURL: "https://img.example/1.png"},
		{Title: "Wrap up", Description: "Save your changes."},
	}

	got := GuideCopyText(steps)
	for _, want := range []string{
		"Step-by-Step Guide:",
		"Step 1: Open settings",
		"Go to account settings.",
		"[Visual reference included]",
		"Wrap up",
		"Save your changes.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GuideCopyText() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Step : Wrap up") {
		t.Error("GuideCopyText() rendered empty step number")
	}
}

func TestGuide(t *testing.T) {
	t.Parallel()

	root := Guide([]GuideStep{
		{StepNumber: "1", Title: "First", Description: "Do the thing", ImageURL: "https://img.example/1.png"},
	})
	if root.Kind != KindCard || root.Key != "structured-guide" {
		t.Errorf("Guide() root = %s/%s, want Card/structured-guide", root.Kind, root.Key)
	}

	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal(guide) error = %v", err)
	}
	s := string(data)
	for _, want := range []string{"Step-by-Step Guide", "Step 1: First", "Do the thing", "https://img.example/1.png"} {
		if !strings.Contains(s, want) {
			t.Errorf("Guide() JSON missing %q", want)
		}
	}
}

func TestSOPCard(t *testing.T) {
	t.Parallel()

	doc := &sop.Document{
		ID:          "refund-policy",
		Title:       "Refund Policy",
		Category:    "Orders",
		Content:     "1. Open the order...",
		Images:      []string{"https://img.example/a.png"},
		LastUpdated: "2026-08-01",
	}

	root := SOPCard(doc)
	if root.Key != "sop-refund-policy" {
		t.Errorf("SOPCard() key = %q", root.Key)
	}
	// Header, content, and image sections.
	if len(root.Children) != 3 {
		t.Errorf("SOPCard() children = %d, want 3", len(root.Children))
	}

	noImages := SOPCard(&sop.Document{ID: "x", Title: "X", Category: "General", Content: "c"})
	if len(noImages.Children) != 2 {
		t.Errorf("SOPCard(no images) children = %d, want 2", len(noImages.Children))
	}
}

func TestSOPCopyText(t *testing.T) {
	t.Parallel()

	doc := &sop.Document{
		ID:       "refund-policy",
		Title:    "Refund Policy",
		Category: "Orders",
		Content:  "Step one.",
		Images:   []string{"a", "b"},
		Keywords: []string{"refund", "return"},
	}

	got := SOPCopyText(doc)
	for _, want := range []string{
		"SOP: Refund Policy",
		"Category: Orders",
		"Step one.",
		"2 reference image(s) attached.",
		"Keywords: refund, return",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("SOPCopyText() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Last updated:") {
		t.Error("SOPCopyText() rendered empty last-updated line")
	}
}

func TestWeatherCopyText(t *testing.T) {
	t.Parallel()

	data := &weather.Data{
		Location:        "Lisbon, Portugal",
		Temperature:     21.4,
		TemperatureUnit: weather.UnitCelsius,
		Conditions:      "Partly cloudy",
		Forecast: []weather.ForecastDay{
			{Date: "2026-08-30", High: 24, Low: 17, Conditions: "Clear sky"},
		},
	}

	got := WeatherCopyText(data)
	if !strings.Contains(got, "Current weather in Lisbon, Portugal: 21°C, Partly cloudy.") {
		t.Errorf("WeatherCopyText() = %q", got)
	}
	if !strings.Contains(got, "2026-08-30: Clear sky, high 24°C, low 17°C") {
		t.Errorf("WeatherCopyText() forecast line missing in %q", got)
	}

	fahrenheit := &weather.Data{Location: "Austin", Temperature: 99.6, TemperatureUnit: weather.UnitFahrenheit, Conditions: "Hot"}
	if !strings.Contains(WeatherCopyText(fahrenheit), "100°F") {
		t.Error("WeatherCopyText() did not use °F for fahrenheit data")
	}
}

func TestWeatherCard(t *testing.T) {
	t.Parallel()

	data := &weather.Data{
		Location:        "Lisbon",
		Temperature:     21,
		TemperatureUnit: weather.UnitCelsius,
		Conditions:      "Clear",
		Forecast:        []weather.ForecastDay{{Date: "2026-08-30", High: 24, Low: 17, Conditions: "Clear"}},
	}

	root := WeatherCard(data)
	if root.Kind != KindCard || root.Key != "weather" {
		t.Errorf("WeatherCard() root = %s/%s", root.Kind, root.Key)
	}
	// Header, current conditions, forecast.
	if len(root.Children) != 3 {
		t.Errorf("WeatherCard() children = %d, want 3", len(root.Children))
	}

	bare := WeatherCard(&weather.Data{Location: "Lisbon", TemperatureUnit: weather.UnitCelsius})
	if len(bare.Children) != 2 {
		t.Errorf("WeatherCard(no forecast) children = %d, want 2", len(bare.Children))
	}
}
