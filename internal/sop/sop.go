// Package sop provides access to Standard Operating Procedure documents
// stored in S3, including pre-signed image URL generation and the SOP
// table of contents injected into the agent's instructions.
package sop

import "errors"

// ErrNotFound indicates the requested SOP document does not exist.
var ErrNotFound = errors.New("sop not found")

// Document is a Standard Operating Procedure fetched from the SOP bucket.
// Images holds S3 URLs as stored; after retrieval through Client they are
// replaced with pre-signed HTTPS URLs.
type Document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Keywords    []string `json:"keywords"`
	Content     string   `json:"content"`
	Images      []string `json:"images"`
	LastUpdated string   `json:"last_updated,omitempty"`
}
