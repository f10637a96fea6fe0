// Package output renders records as tables, JSON or markdown.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Render formats records. An empty list renders as an empty string, or [] for JSON.
func Render(format string, records []Record) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(records)
	case FormatMarkdown:
		return renderMarkdown(records)
	case FormatTable, "":
		return renderTable(records), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// Print renders records to w.
func Print(w io.Writer, format string, records []Record) error {
	out, err := Render(format, records)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	return err
}

// Copy puts text on the system clipboard.
func Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// Error styles an error message for the terminal.
func Error(err error) string {
	return errorStyle.Render("Error: " + err.Error())
}

// Success styles a confirmation message.
func Success(msg string) string {
	return okStyle.Render(msg)
}

func renderTable(records []Record) string {
	if len(records) == 0 {
		return ""
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.values()
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(records[0].keys()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func renderJSON(records []Record) (string, error) {
	objects := make([]map[string]string, len(records))
	for i, r := range records {
		obj := make(map[string]string, len(r))
		for _, f := range r {
			obj[f.Key] = f.Value
		}
		objects[i] = obj
	}
	b, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal output: %w", err)
	}
	return string(b), nil
}

// Markdown builds a pipe table without terminal styling.
func Markdown(records []Record) string {
	if len(records) == 0 {
		return ""
	}
	var b strings.Builder
	keys := records[0].keys()
	b.WriteString("| " + strings.Join(keys, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(keys)) + "\n")
	for _, r := range records {
		values := r.values()
		for i, v := range values {
			values[i] = strings.ReplaceAll(v, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(values, " | ") + " |\n")
	}
	return b.String()
}

func renderMarkdown(records []Record) (string, error) {
	md := Markdown(records)
	if md == "" {
		return "", nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render(md)
}
