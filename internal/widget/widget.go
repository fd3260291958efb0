// Package widget builds the JSON widget trees streamed to the client
// alongside assistant output. Every widget ships with a plain-text copy
// fallback for clients that cannot render the tree.
package widget

// Node kinds used in widget trees.
const (
	KindCard  = "Card"
	KindBox   = "Box"
	KindCol   = "Col"
	KindRow   = "Row"
	KindText  = "Text"
	KindTitle = "Title"
	KindImage = "Image"
)

// Node is a single element of a widget tree. Field applicability depends
// on the kind; unused fields are omitted from the JSON encoding.
type Node struct {
	Kind       string  `json:"type"`
	Key        string  `json:"key,omitempty"`
	Value      string  `json:"value,omitempty"`
	Size       string  `json:"size,omitempty"`
	Weight     string  `json:"weight,omitempty"`
	Color      string  `json:"color,omitempty"`
	Src        string  `json:"src,omitempty"`
	Alt        string  `json:"alt,omitempty"`
	Fit        string  `json:"fit,omitempty"`
	Width      string  `json:"width,omitempty"`
	Padding    int     `json:"padding,omitempty"`
	Gap        int     `json:"gap,omitempty"`
	Radius     string  `json:"radius,omitempty"`
	Background string  `json:"background,omitempty"`
	Overflow   string  `json:"overflow,omitempty"`
	Justify    string  `json:"justify,omitempty"`
	Align      string  `json:"align,omitempty"`
	Children   []*Node `json:"children,omitempty"`
}

// Text creates a text node.
func Text(value, size, weight, color string) *Node {
	return &Node{Kind: KindText, Value: value, Size: size, Weight: weight, Color: color}
}

// Title creates a title node.
func Title(value, size, weight string) *Node {
	return &Node{Kind: KindTitle, Value: value, Size: size, Weight: weight}
}

// Image creates an image node that scales to its container.
func Image(src, alt string) *Node {
	return &Node{Kind: KindImage, Src: src, Alt: alt, Fit: "contain", Width: "100%"}
}

// Col creates a vertical layout node.
func Col(gap int, children ...*Node) *Node {
	return &Node{Kind: KindCol, Gap: gap, Children: children}
}

// header builds the standard tinted header section used by all cards.
func header(title string) *Node {
	return &Node{
		Kind:       KindBox,
		Padding:    5,
		Background: "surface-tertiary",
		Children:   []*Node{Title(title, "md", "semibold")},
	}
}

// framedImage wraps an image in the standard rounded clipping box.
func framedImage(src, alt string) *Node {
	return &Node{
		Kind:     KindBox,
		Radius:   "lg",
		Overflow: "hidden",
		Width:    "100%",
		Children: []*Node{Image(src, alt)},
	}
}
