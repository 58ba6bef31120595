package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"indentdesk/internal/exporter"
	"indentdesk/internal/files"
	"indentdesk/internal/workflow"
	"indentdesk/pkg/contracts/domain"
)

// printMarkdown renders md for the terminal, falling back to the raw text
// when the renderer cannot be built
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "markdown rendering failed: %v\n", err)
	fmt.Print(md)
}

// reportMarkdown lays out the dashboard report sections as markdown tables
func reportMarkdown(d domain.Dashboard) string {
	var b strings.Builder
	b.WriteString("# Indent report\n")
	for _, s := range exporter.Sections(d) {
		fmt.Fprintf(&b, "\n## %s\n\n", s.Title)
		if len(s.Rows) == 0 {
			b.WriteString("_none_\n")
			continue
		}
		writeTable(&b, s.Headers, s.Rows)
	}
	if len(d.AmbiguousIndents) > 0 {
		fmt.Fprintf(&b, "\n> Receipts for %s are credited to the last product line of the indent.\n",
			strings.Join(d.AmbiguousIndents, ", "))
	}
	return b.String()
}

// pendingMarkdown lists the pending count of every stage in pipeline order
func pendingMarkdown(counts map[string]int) string {
	var b strings.Builder
	b.WriteString("# Pending indents\n\n")
	rows := make([][]string, 0, len(workflow.Stages))
	total := 0
	for _, s := range workflow.Stages {
		n := counts[string(s)]
		total += n
		rows = append(rows, []string{string(s), fmt.Sprint(n)})
	}
	rows = append(rows, []string{"**total**", fmt.Sprintf("**%d**", total)})
	writeTable(&b, []string{"Stage", "Pending"}, rows)
	return b.String()
}

// queueMarkdown lists the lines waiting in one stage
func queueMarkdown(stage workflow.Stage, lines []domain.Indent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", stage)
	if len(lines) == 0 {
		b.WriteString("_nothing pending_\n")
		return b.String()
	}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			l.IndentNumber,
			l.ProductName,
			fmt.Sprintf("%g %s", l.Quantity.Float(), l.UOM),
			l.IndenterName,
			l.Timestamp,
		})
	}
	writeTable(&b, []string{"Indent", "Product", "Quantity", "Indenter", "Raised"}, rows)
	return b.String()
}

// inventoryMarkdown summarises stock alerts and optionally lists items
func inventoryMarkdown(alerts domain.InventoryAlerts, items []domain.InventoryView) string {
	var b strings.Builder
	b.WriteString("# Inventory\n\n")
	writeTable(&b, []string{"Measure", "Value"}, [][]string{
		{"Items", fmt.Sprint(alerts.Items)},
		{"Out of stock", fmt.Sprint(alerts.OutOfStock)},
		{"Low stock", fmt.Sprint(alerts.LowStock)},
		{"Excess", fmt.Sprint(alerts.Excess)},
		{"Stock value", fmt.Sprintf("%.2f", alerts.TotalValue)},
	})
	if items == nil {
		return b.String()
	}

	b.WriteString("\n## Items\n\n")
	if len(items) == 0 {
		b.WriteString("_none_\n")
		return b.String()
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.ItemName,
			it.GroupHead,
			fmt.Sprintf("%g %s", it.Current.Float(), it.UOM),
			string(it.Status),
		})
	}
	writeTable(&b, []string{"Item", "Group", "Current", "Status"}, rows)
	return b.String()
}

// snapshotsMarkdown lists snapshot files, newest first
func snapshotsMarkdown(dir string, list []files.FileInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Snapshots in %s\n\n", dir)
	if len(list) == 0 {
		b.WriteString("_none_\n")
		return b.String()
	}
	rows := make([][]string, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		f := list[i]
		rows = append(rows, []string{f.Name, fmt.Sprintf("%.1f KiB", float64(f.Size)/1024), f.ModTime.Format("2006-01-02 15:04")})
	}
	writeTable(&b, []string{"File", "Size", "Written"}, rows)
	return b.String()
}

func writeTable(b *strings.Builder, headers []string, rows [][]string) {
	b.WriteString("| " + strings.Join(escapeCells(headers), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
