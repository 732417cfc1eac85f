package report

import "github.com/charmbracelet/glamour"

// RenderForTerminal renders a stored Markdown report for terminal display.
// Falls back to the raw text when the renderer cannot be built.
func RenderForTerminal(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
