package sop

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveImageRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ref        string
		wantBucket string
		wantKey    string
	}{
		{name: "explicit bucket", ref: "s3://assets/sops/img.png", wantBucket: "assets", wantKey: "sops/img.png"},
		{name: "explicit bucket no key", ref: "s3://assets", wantBucket: "assets", wantKey: ""},
		{name: "bare key", ref: "sops/img.png", wantBucket: "images", wantKey: "sops/img.png"},
		{name: "empty ref", ref: "", wantBucket: "images", wantKey: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bucket, key := resolveImageRef(tt.ref, "images")
			if bucket != tt.wantBucket || key != tt.wantKey {
				t.Errorf("resolveImageRef(%q) = (%q, %q), want (%q, %q)",
					tt.ref, bucket, key, tt.wantBucket, tt.wantKey)
			}
		})
	}
}

func TestLoadTOC(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "toc.json")
	body := `{
		"categories": {
			"Orders": [
				{"id": "refund-policy", "title": "Refund Policy", "keywords": ["refund", "return"]}
			],
			"Account": [
				{"id": "reset-password", "title": "Reset Password"}
			]
		}
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	toc := LoadTOC(path)
	if len(toc.Categories) != 2 {
		t.Fatalf("LoadTOC() categories = %d, want 2", len(toc.Categories))
	}
	if toc.Categories["Orders"][0].ID != "refund-policy" {
		t.Errorf("Orders[0] = %+v", toc.Categories["Orders"][0])
	}
}

func TestLoadTOC_Degraded(t *testing.T) {
	t.Parallel()

	invalid := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(invalid, []byte("not json"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	for name, path := range map[string]string{
		"empty path":   "",
		"missing file": filepath.Join(t.TempDir(), "nope.json"),
		"invalid json": invalid,
	} {
		t.Run(name, func(t *testing.T) {
			toc := LoadTOC(path)
			if toc == nil || toc.Categories == nil {
				t.Fatalf("LoadTOC(%q) = %+v, want empty TOC", path, toc)
			}
			if len(toc.Categories) != 0 {
				t.Errorf("LoadTOC(%q) categories = %d, want 0", path, len(toc.Categories))
			}
		})
	}
}

func TestTOCFormat(t *testing.T) {
	t.Parallel()

	toc := &TableOfContents{Categories: map[string][]TOCEntry{
		"Orders": {
			{ID: "refund-policy", Title: "Refund Policy", Keywords: []string{"refund", "return"}},
		},
		"Account": {
			{ID: "reset-password", Title: "Reset Password"},
		},
	}}

	got := toc.Format()
	if !strings.HasPrefix(got, "# Seller Assistant - SOP Library\n") {
		t.Errorf("Format() missing header:\n%s", got)
	}
	for _, want := range []string{
		"\n## Account",
		"\n## Orders",
		"- **refund-policy**: Refund Policy",
		"  - Keywords: refund, return",
		"- **reset-password**: Reset Password",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q in:\n%s", want, got)
		}
	}

	// Categories render in sorted order.
	if strings.Index(got, "## Account") > strings.Index(got, "## Orders") {
		t.Error("Format() categories not sorted")
	}
	// No keywords line for the entry without keywords.
	if strings.Count(got, "Keywords:") != 1 {
		t.Errorf("Format() keyword lines = %d, want 1", strings.Count(got, "Keywords:"))
	}
}
