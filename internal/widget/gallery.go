package widget

import "fmt"

// Gallery builds the reference image gallery card: a header followed by
// numbered, labeled images.
func Gallery(imageURLs []string) *Node {
	imageWidgets := make([]*Node, 0, len(imageURLs))
	for i, src := range imageURLs {
		label := fmt.Sprintf("Reference Image %d", i+1)
		imageWidgets = append(imageWidgets, &Node{
			Kind:     KindBox,
			Radius:   "lg",
			Overflow: "hidden",
			Width:    "100%",
			Children: []*Node{
				Col(2,
					Text(label, "sm", "medium", "secondary"),
					Image(src, label),
				),
			},
		})
	}

	imagesSection := &Node{
		Kind:     KindBox,
		Padding:  5,
		Children: []*Node{Col(3, imageWidgets...)},
	}

	return &Node{
		Kind:     KindCard,
		Key:      "reference-images",
		Children: []*Node{header("Reference Images"), imagesSection},
	}
}

// GalleryCopyText generates the plain-text fallback for the gallery.
func GalleryCopyText(imageURLs []string) string {
	switch n := len(imageURLs); {
	case n == 0:
		return "No reference images available."
	case n == 1:
		return "Reference Image 1 is displayed above for visual guidance."
	default:
		return fmt.Sprintf("Reference Images 1-%d are displayed above for visual guidance.", n)
	}
}
