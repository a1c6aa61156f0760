package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yumyai/bgcclass/pkg/handler/types"
)

// ClassificationRow is one file classified by one backend on the command line.
// Err is set instead of the prediction when the file failed.
type ClassificationRow struct {
	File          string
	Backend       string
	Proteins      int
	Class         int
	Probabilities []float64
	Err           error
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	predictedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// WriteResultTable prints rows as an aligned table, one probability column per class.
func WriteResultTable(w io.Writer, rows []ClassificationRow, classes []string) error {
	header := []string{"file", "backend", "proteins", "class"}
	header = append(header, classes...)

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{r.File, r.Backend}
		if r.Err != nil {
			line = append(line, "-", "error: "+r.Err.Error())
			cells = append(cells, line)
			continue
		}
		line = append(line, fmt.Sprint(r.Proteins), labelFor(r.Class, classes))
		for _, p := range r.Probabilities {
			line = append(line, fmt.Sprintf("%.4f", p))
		}
		cells = append(cells, line)
	}

	widths := columnWidths(header, cells)

	var b strings.Builder
	b.WriteString(joinCells(header, widths, func(int, string) lipgloss.Style { return headerStyle }))
	for ri, line := range cells {
		b.WriteString("\n")
		r := rows[ri]
		b.WriteString(joinCells(line, widths, func(col int, _ string) lipgloss.Style {
			switch {
			case r.Err != nil && col == 3:
				return errorStyle
			case r.Err == nil && col == 4+r.Class:
				return predictedStyle
			case col < 2:
				return lipgloss.NewStyle()
			default:
				return dimStyle
			}
		}))
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(b.String()))
	return err
}

// WriteBackendTable prints the loaded classifiers and the classes they predict.
func WriteBackendTable(w io.Writer, backends []types.BackendInfo, classes []string) error {
	header := []string{"backend", "route", "features", "classes"}
	cells := make([][]string, 0, len(backends))
	for _, b := range backends {
		cells = append(cells, []string{b.Name, b.Route, fmt.Sprint(b.Features), fmt.Sprint(b.Classes)})
	}
	widths := columnWidths(header, cells)

	var b strings.Builder
	b.WriteString(joinCells(header, widths, func(int, string) lipgloss.Style { return headerStyle }))
	for _, line := range cells {
		b.WriteString("\n")
		b.WriteString(joinCells(line, widths, func(col int, _ string) lipgloss.Style {
			if col == 0 {
				return predictedStyle
			}
			return lipgloss.NewStyle()
		}))
	}
	if len(classes) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("classes: " + strings.Join(classes, ", ")))
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(b.String()))
	return err
}

func columnWidths(header []string, cells [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, line := range cells {
		for i, c := range line {
			if i < len(widths) && lipgloss.Width(c) > widths[i] {
				widths[i] = lipgloss.Width(c)
			}
		}
	}
	return widths
}

func joinCells(line []string, widths []int, style func(col int, cell string) lipgloss.Style) string {
	parts := make([]string, 0, len(line))
	for i, c := range line {
		width := 0
		if i < len(widths) {
			width = widths[i]
		}
		s := style(i, c)
		if i < len(widths) && i != len(line)-1 {
			s = s.Width(width + 2)
		}
		parts = append(parts, s.Render(c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func labelFor(class int, classes []string) string {
	if class >= 0 && class < len(classes) {
		return classes[class]
	}
	return fmt.Sprintf("class_%d", class)
}
