package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// ColumnDef defines a column in a ResultsTable.
type ColumnDef struct {
	Name       string         // Column key, not displayed
	WidthRatio float64        // Proportion of available width (0.0-1.0), 0 means fixed width
	MinWidth   int            // Minimum width in characters
	MaxWidth   int            // Maximum width (0 = no limit)
	Align      Alignment      // Text alignment
	Style      lipgloss.Style // Style to apply to cells in this column
}

// ResultRow represents a single row in the results table.
type ResultRow struct {
	Num   int      // Row number (1-indexed)
	Cells []string // Cell values for each column
}

// ResultsTable renders ranked listings sized to the terminal.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    []ResultRow
}

// Column definitions for match listings.
var (
	// ColNum is the rank column (fixed width, right-aligned, muted).
	ColNum = ColumnDef{
		Name:     "num",
		MinWidth: 4,
		MaxWidth: 6,
		Align:    AlignRight,
		Style:    Muted,
	}

	// ColStrategy names the strategy that produced the match.
	ColStrategy = ColumnDef{
		Name:     "strategy",
		MinWidth: 11,
		Align:    AlignLeft,
	}

	// ColScore is the reliability score, with similarity for scored strategies.
	ColScore = ColumnDef{
		Name:     "score",
		MinWidth: 15,
		Align:    AlignRight,
		Style:    Muted,
	}

	// ColDocument is the matched document.
	ColDocument = ColumnDef{
		Name:       "document",
		WidthRatio: 0.45,
		MinWidth:   12,
		MaxWidth:   60,
		Align:      AlignLeft,
	}

	// ColSpan is the matched byte range.
	ColSpan = ColumnDef{
		Name:       "span",
		WidthRatio: 0.15,
		MinWidth:   12,
		MaxWidth:   24,
		Align:      AlignLeft,
		Style:      Muted,
	}

	// ColSnippet is a one-line excerpt of the matched text.
	ColSnippet = ColumnDef{
		Name:       "snippet",
		WidthRatio: 0.40,
		MinWidth:   20,
		MaxWidth:   80,
		Align:      AlignLeft,
		Style:      Muted,
	}
)

// Standard layouts.
var (
	// MatchLayout lists ranked matches: [num, strategy, score, document, span, snippet]
	MatchLayout = []ColumnDef{ColNum, ColStrategy, ColScore, ColDocument, ColSpan, ColSnippet}

	// NameLayout lists documents with their best score: [num, document, score]
	NameLayout = []ColumnDef{ColNum, ColDocument, ColScore}
)

// NewResultsTable creates a new ResultsTable with the given display context and column layout.
func NewResultsTable(display *DisplayContext, columns []ColumnDef) *ResultsTable {
	return &ResultsTable{
		display: display,
		columns: columns,
		rows:    make([]ResultRow, 0),
	}
}

// AddRow adds a row to the table.
func (t *ResultsTable) AddRow(row ResultRow) {
	t.rows = append(t.rows, row)
}

// ContentWidth returns the calculated width for a specific column by name.
// This allows callers to prepare content (e.g., snippet extraction) based on actual available width.
func (t *ResultsTable) ContentWidth(columnName string) int {
	widths := t.calculateWidths()
	for i, col := range t.columns {
		if col.Name == columnName {
			return widths[i]
		}
	}
	return 60 // fallback
}

// calculateWidths computes column widths based on terminal size and column definitions.
func (t *ResultsTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	// First pass: calculate fixed widths and total ratio
	var totalRatio float64
	var fixedWidth int
	const columnPadding = 2 // padding between columns

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			// Fixed-width column: use MinWidth or calculate from content
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	// Calculate available space for flexible columns
	totalPadding := (len(t.columns) - 1) * columnPadding
	leftMargin := 2 // indent for aesthetic
	available := t.display.TermWidth - fixedWidth - totalPadding - leftMargin

	if available < 0 {
		available = 0
	}

	// Second pass: distribute available space by ratio
	for i, col := range t.columns {
		if col.WidthRatio > 0 {
			// Calculate proportional width
			ratio := col.WidthRatio / totalRatio
			width := int(float64(available) * ratio)

			// Apply min/max constraints
			if width < col.MinWidth {
				width = col.MinWidth
			}
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}

			widths[i] = width
		}
	}

	return widths
}

// Render generates the table output as a string.
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()

	// Build table data
	tableRows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		tableRow := make([]string, len(t.columns))
		for j := range t.columns {
			if j < len(row.Cells) {
				tableRow[j] = row.Cells[j]
			}
		}
		tableRows[i] = tableRow
	}

	// Create lipgloss table with minimal border style
	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Left:   "",
			Right:  "",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			colDef := t.columns[col]
			style := colDef.Style
			if style.Value() == "" {
				style = lipgloss.NewStyle()
			}

			// Set width
			style = style.Width(widths[col])

			// Set alignment
			switch colDef.Align {
			case AlignRight:
				style = style.Align(lipgloss.Right)
			case AlignCenter:
				style = style.Align(lipgloss.Center)
			default:
				style = style.Align(lipgloss.Left)
			}

			// Add right padding except for last column
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}

			return style
		}).
		Rows(tableRows...)

	return tbl.Render()
}

// TruncateWithEllipsis truncates s to maxLen runes, adding an ellipsis if
// needed. It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:max(maxLen, 0)])
	}

	truncated := string(runes[:maxLen-3])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// OneLine collapses whitespace runs, line breaks included, to single spaces.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FormatRowNum formats a row number with consistent width.
func FormatRowNum(num, maxNum int) string {
	width := len(fmt.Sprintf("%d", maxNum))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%*d", width, num)
}
