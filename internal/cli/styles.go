package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kruzic-io/kruzic/internal/models"
)

var (
	colorText  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorMuted = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorOK    = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorFail  = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorWarn  = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCall  = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCall)
	styleVersion = lipgloss.NewStyle().Foreground(colorOK)
	styleLabel   = lipgloss.NewStyle().Foreground(colorMuted)
	styleValue   = lipgloss.NewStyle().Foreground(colorText)
	styleSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorFail)
	styleHint    = lipgloss.NewStyle().Foreground(colorMuted)
	styleCommand = lipgloss.NewStyle().Bold(true).Foreground(colorText)
)

// logKindStyles colors the [kind] tag of a demo log line.
var logKindStyles = map[models.LogKind]lipgloss.Style{
	models.LogCall:    lipgloss.NewStyle().Foreground(colorCall),
	models.LogSuccess: lipgloss.NewStyle().Foreground(colorOK),
	models.LogError:   lipgloss.NewStyle().Foreground(colorFail),
}

// outcome renders text green when ok and red otherwise.
func outcome(ok bool, text string) string {
	if ok {
		return styleSuccess.Render(text)
	}
	return styleError.Render(text)
}

// fieldWriter prints indented "label: value" rows with labels padded to a
// common width.
type fieldWriter struct {
	out   io.Writer
	width int
}

func newFieldWriter(out io.Writer, labels ...string) fieldWriter {
	w := 0
	for _, l := range labels {
		w = max(w, len(l)+1)
	}
	return fieldWriter{out: out, width: w}
}

func (f fieldWriter) row(label, value string) {
	pad := strings.Repeat(" ", max(f.width-len(label)-1, 0))
	fmt.Fprintf(f.out, "  %s%s %s\n", styleLabel.Render(label+":"), pad, styleValue.Render(value))
}
