package markdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	alertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const dateLayout = "2006-01-02"

func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// StatusStyle covers both client and document statuses.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "active":
		return positiveStyle
	case "prospect":
		return pendingStyle
	case "inactive", "archived":
		return mutedStyle
	case "deleted":
		return alertStyle
	default:
		return neutralStyle
	}
}

func RenderStatus(status string) string {
	return StatusStyle(status).Render(status)
}

func RenderField(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

func RenderEntityHeader(title string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString("  " + f + "\n")
	}
	return sb.String()
}

// FormatDate renders an optional date, or "-" when unset.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}
