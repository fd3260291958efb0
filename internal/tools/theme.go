package tools

import (
	"errors"
	"strings"

	"github.com/firebase/genkit/go/ai"

	"github.com/lumian-ai/sellerchat/internal/turn"
)

// ClientThemeToolName is the client-side tool the UI executes to apply a
// color scheme change.
const ClientThemeToolName = "switch_theme"

// ErrInvalidTheme indicates the requested theme is neither light nor dark.
var ErrInvalidTheme = errors.New("theme must be either 'light' or 'dark'")

// NormalizeTheme maps free-form theme requests to "light" or "dark".
// Exact matches win after trimming and lowercasing; otherwise a substring
// match applies, preferring dark.
func NormalizeTheme(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "light", "dark":
		return normalized, nil
	}
	if strings.Contains(normalized, "dark") {
		return "dark", nil
	}
	if strings.Contains(normalized, "light") {
		return "light", nil
	}
	return "", ErrInvalidTheme
}

// SwitchThemeInput names the requested color scheme.
type SwitchThemeInput struct {
	Theme string `json:"theme" jsonschema_description:"Requested color scheme, light or dark"`
}

// SwitchThemeOutput echoes the scheme the client was asked to apply.
type SwitchThemeOutput struct {
	Theme string `json:"theme"`
}

// SwitchTheme records a pending client tool call that applies the theme.
// Failures are swallowed: the tool reports nothing to the model rather
// than aborting the turn over a cosmetic change.
func (k *Kit) SwitchTheme(ctx *ai.ToolContext, input SwitchThemeInput) (*SwitchThemeOutput, error) {
	tc := turn.FromContext(ctx.Context)
	if tc == nil {
		k.logger.Warn("switch_theme invoked outside a turn")
		return nil, nil
	}

	requested, err := NormalizeTheme(input.Theme)
	if err != nil {
		k.logger.Warn("failed to switch theme", "requested", input.Theme, "error", err)
		return nil, nil
	}

	tc.SetClientAction(ClientThemeToolName, map[string]any{"theme": requested})
	return &SwitchThemeOutput{Theme: requested}, nil
}
