package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Layout constants for grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside the border (Padding(0,1) = 1 left + 1 right)
	HorizontalPadding = 2

	// Lines inside a cell: name, description, badges
	CellLines = 3

	MinCellWidth = 16
)

// Badges are the list memberships shown on a card
type Badges struct {
	Watchlist bool
	Favorite  bool
	Watched   bool
}

// Cell is one card of the grid
type Cell struct {
	Title   domain.Title
	Badges  Badges
	Matched []int // Byte offsets of filter matches in the name
}

// Grid renders titles as a scrolling grid of cards. It keeps no selection
// state of its own; the caller passes the cursor on every render.
type Grid struct {
	columns int
	width   int
	height  int
}

// NewGrid creates a grid with the preferred column count
func NewGrid(columns int) Grid {
	if columns < 1 {
		columns = 1
	}
	return Grid{columns: columns}
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
}

// Columns returns how many cards fit on a row at the current width
func (g Grid) Columns() int {
	if g.width <= 0 {
		return g.columns
	}
	fit := g.width / (MinCellWidth + BorderWidth)
	return max(1, min(g.columns, fit))
}

// VisibleRows returns how many card rows fit at the current height
func (g Grid) VisibleRows() int {
	return max(1, g.height/(CellLines+BorderHeight))
}

func (g Grid) cellWidth() int {
	cols := g.Columns()
	w := g.width/cols - BorderWidth
	return max(MinCellWidth, w)
}

// View renders the cards around the cursor
func (g Grid) View(cells []Cell, cursor int, empty string) string {
	if len(cells) == 0 {
		return styles.DimStyle.Render(empty)
	}

	cols := g.Columns()
	rows := (len(cells) + cols - 1) / cols
	visible := g.VisibleRows()

	cursorRow := cursor / cols
	startRow := 0
	if cursorRow >= visible {
		startRow = cursorRow - visible + 1
	}
	endRow := min(rows, startRow+visible)

	width := g.cellWidth()
	var lines []string
	for r := startRow; r < endRow; r++ {
		var rendered []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(cells) {
				break
			}
			rendered = append(rendered, renderCell(cells[i], i == cursor, width))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return strings.Join(lines, "\n")
}

func renderCell(cell Cell, selected bool, width int) string {
	style := styles.GridCellStyle
	nameStyle := styles.SubtitleStyle
	if selected {
		style = styles.GridCellSelectedStyle
		nameStyle = styles.TitleStyle
	}

	inner := width - HorizontalPadding
	name := cell.Title.DisplayName()
	if len(cell.Matched) > 0 && lipgloss.Width(name) <= inner {
		name = styles.RenderHighlighted(name, cell.Matched, nameStyle)
	} else {
		name = nameStyle.Render(styles.Truncate(name, inner))
	}

	desc := styles.DimStyle.Render(styles.Truncate(cell.Title.GetDescription(), inner))
	badges := styles.RenderBadges(cell.Badges.Watchlist, cell.Badges.Favorite, cell.Badges.Watched)

	return style.Width(width).Render(strings.Join([]string{name, desc, badges}, "\n"))
}
