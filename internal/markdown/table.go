package markdown

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rogersnm/frontdesk/internal/model"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

func RenderClientTable(clients []model.Client) string {
	if len(clients) == 0 {
		return "No clients found."
	}
	rows := make([][]string, len(clients))
	for i, c := range clients {
		rows[i] = []string{
			c.ID,
			c.Name,
			c.Category,
			RenderStatus(string(c.Status)),
			FormatDate(c.PolicyRenewalDate),
		}
	}
	return renderTable([]string{"ID", "Name", "Category", "Status", "Renewal"}, rows)
}

func RenderDocumentTable(docs []model.Document) string {
	if len(docs) == 0 {
		return "No documents found."
	}
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{
			d.ID,
			d.Name,
			d.Type,
			RenderStatus(string(d.Status)),
			strings.Join(d.Tags, ", "),
			d.UploadedAt.Format(dateLayout),
		}
	}
	return renderTable([]string{"ID", "Name", "Type", "Status", "Tags", "Uploaded"}, rows)
}

func RenderVersionTable(versions []model.Version) string {
	if len(versions) == 0 {
		return "No versions found."
	}
	rows := make([][]string, len(versions))
	for i, v := range versions {
		rows[i] = []string{
			strconv.Itoa(v.Number),
			v.Name,
			humanSize(v.Size),
			v.Timestamp.Format(time.DateTime),
			v.Comment,
		}
	}
	return renderTable([]string{"#", "Name", "Size", "Created", "Comment"}, rows)
}

func RenderInteractionTable(interactions []model.Interaction) string {
	if len(interactions) == 0 {
		return "No interactions recorded."
	}
	rows := make([][]string, len(interactions))
	for i, in := range interactions {
		rows[i] = []string{in.ID, in.Type, in.Timestamp.Format(time.DateTime), in.Notes}
	}
	return renderTable([]string{"ID", "Type", "When", "Notes"}, rows)
}

func RenderTimeline(events []model.TimelineEvent) string {
	if len(events) == 0 {
		return "No activity."
	}
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(labelStyle.Render(e.Timestamp.Format(time.DateTime)))
		sb.WriteString("  ")
		sb.WriteString(headerStyle.Render(e.Title))
		if e.Description != "" {
			sb.WriteString("  " + e.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderStats lists totals with the per-type counts sorted by name.
func RenderStats(s model.DocumentStats) string {
	rows := [][]string{
		{"total", strconv.Itoa(s.Total)},
		{"recent uploads", strconv.Itoa(s.RecentUploads)},
	}
	for _, st := range model.DocumentStatuses {
		rows = append(rows, []string{"status " + string(st), strconv.Itoa(s.ByStatus[st])})
	}
	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	slices.Sort(types)
	for _, t := range types {
		label := t
		if label == "" {
			label = "(none)"
		}
		rows = append(rows, []string{"type " + label, strconv.Itoa(s.ByType[t])})
	}
	return renderTable([]string{"Metric", "Count"}, rows)
}

func humanSize(n int64) string {
	switch {
	case n <= 0:
		return "-"
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}
