package table

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Format returns the rows padded according to the widest entry in each column.
// Cells may carry ANSI styling; only their visible width is measured.
func Format(rows [][]string, alignments []Alignment) []string {
	return FormatWidths(rows, alignments, nil)
}

// FormatWidths is Format with per-column maximum widths. Cells wider than
// their limit are truncated with an ellipsis; a limit of 0 means unbounded.
func FormatWidths(rows [][]string, alignments []Alignment, limits []int) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	clipped := make([][]string, len(rows))
	for i, row := range rows {
		clipped[i] = make([]string, len(row))
		for c, cell := range row {
			if c < len(limits) && limits[c] > 0 && CellWidth(cell) > limits[c] {
				cell = ansi.Truncate(cell, limits[c], "…")
			}
			clipped[i][c] = cell
		}
	}
	widths := make([]int, colCount)
	for _, row := range clipped {
		for c, cell := range row {
			if width := CellWidth(cell); width > widths[c] {
				widths[c] = width
			}
		}
	}
	out := make([]string, len(clipped))
	for i, row := range clipped {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			pad := widths[c] - CellWidth(cell)
			last := c == len(row)-1
			if c < len(alignments) && alignments[c] == AlignRight {
				writeSpaces(&b, pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if !last {
					writeSpaces(&b, pad)
				}
			}
		}
		out[i] = b.String()
	}
	return out
}

// CellWidth returns the number of terminal columns text occupies.
func CellWidth(text string) int {
	return runewidth.StringWidth(ansi.Strip(text))
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
