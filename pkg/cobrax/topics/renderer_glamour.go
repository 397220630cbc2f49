package topics

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics through glamour. Other formats
// pass through unchanged, as does anything glamour fails on.
type GlamourRenderer struct {
	Style string // "auto", "notty", "dark", "light" or a style file path
	Width int    // word wrap; 0 keeps glamour's default
}

// NewGlamourRenderer creates a markdown renderer. Styled output is chosen
// for terminals; otherwise the notty style keeps the text plain.
func NewGlamourRenderer(styled bool) *GlamourRenderer {
	style := "notty"
	if styled {
		style = "auto"
	}
	return &GlamourRenderer{Style: style}
}

// Render converts markdown to terminal output
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	switch r.Style {
	case "", "auto":
		options = append(options, glamour.WithAutoStyle())
	case "notty", "dark", "light", "ascii", "dracula", "pink", "tokyo-night":
		options = append(options, glamour.WithStandardStyle(r.Style))
	default:
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
