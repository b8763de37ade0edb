package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains Lipgloss styles for command output.
type Styles struct {
	// Color is false when every style renders plain text.
	Color bool

	Heading lipgloss.Style
	Key     lipgloss.Style
	LineNo  lipgloss.Style
	Match   lipgloss.Style
	Dim     lipgloss.Style
}

// NewStyles creates output styles based on color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Heading: plain,
			Key:     plain,
			LineNo:  plain,
			Match:   plain,
			Dim:     plain,
		}
	}
	return &Styles{
		Color:   true,
		Heading: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		LineNo:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Match:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
