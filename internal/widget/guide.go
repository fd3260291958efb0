package widget

import (
	"fmt"
	"strings"
)

// GuideStep is a single step of a structured guide.
type GuideStep struct {
	StepNumber  string `json:"step_number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Guide builds the step-by-step guide card with optional inline images.
func Guide(steps []GuideStep) *Node {
	stepSections := make([]*Node, 0, len(steps))
	for _, step := range steps {
		heading := step.Title
		if step.StepNumber != "" {
			heading = fmt.Sprintf("Step %s: %s", step.StepNumber, step.Title)
		}

		content := []*Node{
			Text(heading, "md", "semibold", "primary"),
			Text(step.Description, "sm", "", "secondary"),
		}
		if step.ImageURL != "" {
			content = append(content, framedImage(step.ImageURL, fmt.Sprintf("Step %s illustration", step.StepNumber)))
		}

		stepSections = append(stepSections, &Node{
			Kind:       KindBox,
			Padding:    4,
			Radius:     "md",
			Background: "surface-secondary",
			Children:   []*Node{Col(2, content...)},
		})
	}

	stepsContainer := &Node{
		Kind:     KindBox,
		Padding:  5,
		Children: []*Node{Col(3, stepSections...)},
	}

	return &Node{
		Kind:     KindCard,
		Key:      "structured-guide",
		Children: []*Node{header("Step-by-Step Guide"), stepsContainer},
	}
}

// GuideCopyText generates the plain-text fallback for a structured guide.
func GuideCopyText(steps []GuideStep) string {
	lines := []string{"Step-by-Step Guide:\n"}

	for _, step := range steps {
		if step.StepNumber != "" {
			lines = append(lines, fmt.Sprintf("\nStep %s: %s", step.StepNumber, step.Title))
		} else {
			lines = append(lines, "\n"+step.Title)
		}
		if step.Description != "" {
			lines = append(lines, step.Description)
		}
		if step.ImageURL != "" {
			lines = append(lines, "[Visual reference included]")
		}
	}

	return strings.Join(lines, "\n")
}
