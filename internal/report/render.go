package report

import (
	"strconv"

	"ymlfeed/report/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Column headers of the rendered report.
const (
	HeaderCategories = "categories"
	HeaderOffers     = "offers"
)

var (
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	countStyle  = cellStyle.Align(lipgloss.Right)
	headerStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Render formats rows as a two column table with a header rule.
func Render(rows []domain.ReportRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		Headers(HeaderCategories, HeaderOffers).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return countStyle
			default:
				return cellStyle
			}
		})

	for _, row := range rows {
		t.Row(row.Path, strconv.Itoa(row.Count))
	}

	return t.String()
}
