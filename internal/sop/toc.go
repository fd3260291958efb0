package sop

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// TOCEntry is a single SOP listed in the table of contents.
type TOCEntry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords,omitempty"`
}

// TableOfContents lists the available SOPs grouped by category.
// It is rendered as markdown and injected into the agent instructions so
// the model can pick the right document without guessing IDs.
type TableOfContents struct {
	Categories map[string][]TOCEntry `json:"categories"`
}

// LoadTOC reads a table of contents from a JSON file.
// A missing or unreadable file yields an empty TOC rather than an error;
// the agent still works, it just has no catalog to cite.
func LoadTOC(path string) *TableOfContents {
	empty := &TableOfContents{Categories: map[string][]TOCEntry{}}
	if path == "" {
		return empty
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-configured path
	if err != nil {
		return empty
	}

	var toc TableOfContents
	if err := json.Unmarshal(data, &toc); err != nil {
		return empty
	}
	if toc.Categories == nil {
		toc.Categories = map[string][]TOCEntry{}
	}
	return &toc
}

// Format renders the table of contents as markdown, one section per
// category with SOP IDs, titles, and keywords.
func (t *TableOfContents) Format() string {
	lines := []string{"# Seller Assistant - SOP Library\n"}

	categories := make([]string, 0, len(t.Categories))
	for c := range t.Categories {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, category := range categories {
		lines = append(lines, fmt.Sprintf("\n## %s", category))
		for _, entry := range t.Categories[category] {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", entry.ID, entry.Title))
			if len(entry.Keywords) > 0 {
				lines = append(lines, fmt.Sprintf("  - Keywords: %s", strings.Join(entry.Keywords, ", ")))
			}
		}
	}

	return strings.Join(lines, "\n")
}
