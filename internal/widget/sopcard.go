package widget

import (
	"fmt"
	"strings"

	"github.com/lumian-ai/sellerchat/internal/sop"
)

// SOPCard builds the SOP display card: header with title, category badge
// and last-updated line, the instruction content, and reference images
// when present.
func SOPCard(doc *sop.Document) *Node {
	lastUpdated := doc.LastUpdated
	if lastUpdated == "" {
		lastUpdated = "N/A"
	}

	categoryBadge := &Node{
		Kind:       KindBox,
		Padding:    2,
		Radius:     "lg",
		Background: "blue-100",
		Children:   []*Node{Text(doc.Category, "xs", "medium", "blue-700")},
	}

	cardHeader := &Node{
		Kind:       KindBox,
		Padding:    5,
		Background: "surface-tertiary",
		Children: []*Node{
			Col(2,
				&Node{
					Kind:    KindRow,
					Justify: "between",
					Align:   "center",
					Children: []*Node{
						Title(doc.Title, "md", "semibold"),
						categoryBadge,
					},
				},
				Text("Last updated: "+lastUpdated, "xs", "", "tertiary"),
			),
		},
	}

	contentSection := &Node{
		Kind:    KindBox,
		Padding: 5,
		Children: []*Node{
			Col(3,
				Text("Instructions", "sm", "semibold", ""),
				Text(doc.Content, "sm", "", "secondary"),
			),
		},
	}

	children := []*Node{cardHeader, contentSection}

	if len(doc.Images) > 0 {
		imageWidgets := make([]*Node, 0, len(doc.Images))
		for i, src := range doc.Images {
			imageWidgets = append(imageWidgets, framedImage(src, fmt.Sprintf("%s - Image %d", doc.Title, i+1)))
		}
		children = append(children, &Node{
			Kind:    KindBox,
			Padding: 5,
			Children: []*Node{
				Col(3,
					Text("Reference Images", "sm", "semibold", ""),
					Col(3, imageWidgets...),
				),
			},
		})
	}

	return &Node{
		Kind:     KindCard,
		Key:      "sop-" + doc.ID,
		Children: children,
	}
}

// SOPCopyText generates the plain-text fallback for the SOP card.
func SOPCopyText(doc *sop.Document) string {
	segments := []string{
		"SOP: " + doc.Title,
		"Category: " + doc.Category,
	}

	if doc.LastUpdated != "" {
		segments = append(segments, "Last updated: "+doc.LastUpdated)
	}

	segments = append(segments, "\n"+doc.Content)

	if len(doc.Images) > 0 {
		segments = append(segments, fmt.Sprintf("\n%d reference image(s) attached.", len(doc.Images)))
	}

	if len(doc.Keywords) > 0 {
		segments = append(segments, "Keywords: "+strings.Join(doc.Keywords, ", "))
	}

	return strings.TrimSpace(strings.Join(segments, "\n"))
}
