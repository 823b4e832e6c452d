package reporters

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")  // app and source headers
	colorGreen  = lipgloss.Color("35")  // passing checks
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorDim    = lipgloss.Color("240") // secondary text
)

// styles renders text for one output. The color profile is detected from the
// writer, so files and buffers get plain text.
type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(out io.Writer) styles {
	renderer := lipgloss.NewRenderer(out)
	return styles{
		title:   renderer.NewStyle().Bold(true).Foreground(colorCyan),
		header:  renderer.NewStyle().Foreground(colorCyan),
		success: renderer.NewStyle().Foreground(colorGreen),
		warning: renderer.NewStyle().Foreground(colorYellow),
		failure: renderer.NewStyle().Foreground(colorRed),
		dim:     renderer.NewStyle().Foreground(colorDim),
	}
}
