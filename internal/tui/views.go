package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/catalog/tmdb"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Layout constants
const (
	// Rows used by the tab bar, input bar and status line
	ChromeHeight = 3

	// Detail pane share of the width when open
	DetailPercent  = 40
	MinDetailWidth = 30
)

// updateLayout recomputes component sizes after a resize or pane change
func (m *Model) updateLayout() {
	if !m.ready {
		return
	}
	helpHeight := 1
	if m.showHelp {
		helpHeight = 5
	}
	bodyHeight := max(1, m.height-ChromeHeight-helpHeight)

	gridWidth := m.width
	if m.view.Detail() {
		detailWidth := max(MinDetailWidth, m.width*DetailPercent/100)
		gridWidth = max(components.MinCellWidth+components.BorderWidth, m.width-detailWidth)
		m.detail.SetSize(m.width-gridWidth, bodyHeight)
	}
	m.grid.SetSize(gridWidth, bodyHeight)
	m.bar.SetWidth(m.width)
	m.help.Width = m.width
}

// View renders the application
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	cells := m.cells()
	sections := []string{
		m.renderTabs(),
		m.renderBar(),
		m.renderBody(cells),
		m.renderStatus(len(cells)),
		m.help.View(m.keys),
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderTabs() string {
	all := Sections()
	tabs := make([]components.Tab, len(all))
	active := 0
	for i, s := range all {
		tabs[i] = components.Tab{Label: s.Label(), Count: -1}
		if list, ok := s.List(); ok {
			tabs[i].Count = m.lists.Count(list)
		}
		if s == m.view.Section() {
			active = i
		}
	}
	return components.RenderTabs(tabs, active, m.width)
}

// renderBar shows the input while editing, otherwise what the grid is showing
func (m Model) renderBar() string {
	if m.bar.Visible() {
		return m.bar.View()
	}

	var parts []string
	switch sec := m.view.Section(); {
	case sec == SectionSearch:
		if q := strings.TrimSpace(m.view.Query()); q != "" {
			parts = append(parts, fmt.Sprintf("results for %q", q))
		} else {
			parts = append(parts, "press s to search")
		}
	case !sec.Remote():
		if f := m.view.Filter(); f != "" {
			parts = append(parts, "filter: "+f)
		}
	default:
		if mt, ok := sec.MediaType(); ok {
			genre := "all genres"
			for _, g := range m.genres[mt] {
				if g.ID == m.view.GenreID() {
					genre = g.Name
					break
				}
			}
			parts = append(parts, genre)
		}
	}
	if m.view.Section().Remote() && m.page.TotalPages > 0 {
		parts = append(parts, fmt.Sprintf("page %d/%d", m.view.Page(), m.page.TotalPages))
	}
	return styles.DimStyle.Render(strings.Join(parts, " · "))
}

func (m Model) renderBody(cells []components.Cell) string {
	empty := "Nothing here yet"
	switch {
	case m.loading:
		empty = m.spinner.View() + " Loading..."
	case m.view.Filter() != "":
		empty = "No matches"
	case m.view.Section() == SectionSearch && m.view.Query() == "":
		empty = "Type to search TMDB"
	}

	grid := m.grid.View(cells, m.view.Cursor(), empty)
	if !m.view.Detail() {
		return grid
	}

	var badges components.Badges
	var genres []string
	posterURL := ""
	if key, ok := m.detail.Key(); ok {
		badges = m.badges(key)
		if title, ok := m.selected(); ok && title.Key == key {
			genres = m.catalog.GenreNames(key.MediaType, title.GenreIDs)
			posterURL = tmdb.PosterURL(m.imageBaseURL, title.PosterPath)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, m.detail.View(badges, genres, posterURL))
}

func (m Model) renderStatus(count int) string {
	var left string
	switch {
	case m.status != "" && m.statusErr:
		left = styles.ErrorStyle.Render(m.status)
	case m.status != "":
		left = styles.SuccessStyle.Render(m.status)
	case m.loading:
		left = m.spinner.View() + " " + styles.DimStyle.Render("loading")
	}

	right := styles.DimStyle.Render(fmt.Sprintf("%d titles", count))
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return styles.StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}
