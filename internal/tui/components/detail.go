package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Detail displays the full metadata of the selected title
type Detail struct {
	title   *domain.Title
	loading bool
	err     error
	width   int
	height  int
}

// NewDetail creates a new detail pane
func NewDetail() Detail {
	return Detail{}
}

// SetSize updates the component dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetLoading shows a placeholder for the given key until details arrive
func (d *Detail) SetLoading(t domain.Title) {
	d.title = &t
	d.loading = true
	d.err = nil
}

// SetTitle replaces the displayed title with its full record
func (d *Detail) SetTitle(t *domain.Title, err error) {
	d.loading = false
	d.err = err
	if t != nil {
		d.title = t
	}
}

// Key returns the key of the displayed title
func (d Detail) Key() (domain.Key, bool) {
	if d.title == nil {
		return domain.Key{}, false
	}
	return d.title.Key, true
}

// View renders the pane. posterURL and genres come from the caller,
// which owns configuration and the genre cache.
func (d Detail) View(badges Badges, genres []string, posterURL string) string {
	style := styles.DetailStyle
	frameW, frameH := style.GetFrameSize()
	inner := max(10, d.width-frameW)

	if d.title == nil {
		return style.Width(inner).Render(styles.DimStyle.Render("No title selected"))
	}
	t := d.title

	var lines []string
	lines = append(lines, styles.TitleStyle.Render(styles.Truncate(t.DisplayName(), inner)))
	if t.OriginalName != "" && t.OriginalName != t.Name {
		lines = append(lines, styles.DimStyle.Render(styles.Truncate(t.OriginalName, inner)))
	}
	lines = append(lines, styles.SubtitleStyle.Render(t.GetDescription()))

	if t.Tagline != "" {
		lines = append(lines, styles.AccentStyle.Render(styles.Truncate(t.Tagline, inner)))
	}
	lines = append(lines, "")

	var facts []string
	if t.Runtime > 0 {
		facts = append(facts, fmt.Sprintf("%d min", t.Runtime))
	}
	if t.SeasonCount > 0 {
		facts = append(facts, fmt.Sprintf("%d seasons, %d episodes", t.SeasonCount, t.EpisodeCount))
	}
	if t.Status != "" {
		facts = append(facts, t.Status)
	}
	if t.VoteCount > 0 {
		facts = append(facts, fmt.Sprintf("%d votes", t.VoteCount))
	}
	if len(facts) > 0 {
		lines = append(lines, styles.SubtitleStyle.Render(strings.Join(facts, " · ")))
	}

	if len(t.Genres) > 0 {
		genres = genres[:0:0]
		for _, g := range t.Genres {
			genres = append(genres, g.Name)
		}
	}
	if len(genres) > 0 {
		lines = append(lines, styles.DimStyle.Render(styles.Truncate(strings.Join(genres, ", "), inner)))
	}

	lines = append(lines, renderMembership(badges))
	lines = append(lines, "")

	switch {
	case d.loading:
		lines = append(lines, styles.DimStyle.Render("Loading details..."))
	case d.err != nil:
		lines = append(lines, styles.ErrorStyle.Render(styles.Truncate(d.err.Error(), inner)))
	}

	if t.Overview != "" {
		lines = append(lines, lipgloss.NewStyle().Width(inner).Render(t.Overview))
	}
	if posterURL != "" {
		lines = append(lines, "", styles.DimStyle.Render(styles.Truncate(posterURL, inner)))
	}

	content := strings.Join(lines, "\n")
	if d.height > frameH {
		// Clip rather than let a long overview push the footer off screen
		all := strings.Split(content, "\n")
		if len(all) > d.height-frameH {
			all = all[:d.height-frameH]
		}
		content = strings.Join(all, "\n")
	}
	return style.Width(inner).Render(content)
}

func renderMembership(b Badges) string {
	item := func(on bool, char, label string, style lipgloss.Style) string {
		if on {
			return style.Render(char + " " + label)
		}
		return styles.DimStyle.Render("· " + label)
	}
	return strings.Join([]string{
		item(b.Watchlist, styles.WatchlistChar, "Watchlist", styles.WatchlistStyle),
		item(b.Favorite, styles.FavoriteChar, "Favorite", styles.FavoriteStyle),
		item(b.Watched, styles.WatchedChar, "Watched", styles.WatchedStyle),
	}, "  ")
}
