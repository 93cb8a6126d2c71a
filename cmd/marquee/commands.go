package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/launcher"
	"github.com/mmcdole/marquee/internal/lists"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/urfave/cli/v3"
)

const commandTimeout = 30 * time.Second

func (r *runner) search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("search needs a query")
	}
	catalog, err := r.openCatalog()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	page, err := catalog.Search(ctx, query, int(cmd.Int("page")))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	r.printPage(page)
	return nil
}

func (r *runner) trending(ctx context.Context, cmd *cli.Command) error {
	window := domain.TrendingWindow(cmd.String("window"))
	if window != domain.TrendingDay && window != domain.TrendingWeek {
		return fmt.Errorf("invalid window %q (day or week)", window)
	}
	var mediaType domain.MediaType
	if s := cmd.String("type"); s != "" {
		mt, err := domain.ParseMediaType(s)
		if err != nil {
			return err
		}
		mediaType = mt
	}

	catalog, err := r.openCatalog()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	page, err := catalog.Trending(ctx, window, mediaType, int(cmd.Int("page")))
	if err != nil {
		return fmt.Errorf("trending failed: %w", err)
	}
	page.Titles = service.FilterTitles(cmd.String("filter"), page.Titles)
	r.printPage(page)
	return nil
}

// printPage writes one title per line with the list badges
func (r *runner) printPage(page domain.Page) {
	store := r.openLists()
	if len(page.Titles) == 0 {
		fmt.Fprintln(r.out, "No results")
		return
	}
	for _, t := range page.Titles {
		m := store.Membership(t.Key)
		badges := styles.RenderBadges(m.Watchlist, m.Favorite, m.Watched)
		fmt.Fprintf(r.out, "%-10s %-40s %s %s\n", t.Key.String(), styles.Truncate(t.DisplayName(), 40), t.GetDescription(), badges)
	}
	if page.TotalPages > 1 {
		fmt.Fprintf(r.out, "page %d/%d\n", page.Number, page.TotalPages)
	}
}

func (r *runner) list(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected <list>")
	}
	name, err := domain.ParseListName(cmd.Args().First())
	if err != nil {
		return err
	}

	store := r.openLists()
	fmt.Fprintf(r.out, "%s (%d)\n", name.Label(), store.Count(name))
	matches := service.FilterRecords(cmd.String("filter"), store.Records(name))
	if len(matches) == 0 {
		fmt.Fprintf(r.out, "%s is empty\n", name.Label())
		return nil
	}
	for _, m := range matches {
		rec := m.Record
		rating := ""
		if rec.VoteAverage != nil {
			rating = fmt.Sprintf("★ %.1f", *rec.VoteAverage)
		}
		fmt.Fprintf(r.out, "%-10s %-40s %s %s\n",
			rec.Key.String(), styles.Truncate(rec.Title, 40), rec.AddedAt.Format("2006-01-02"), rating)
	}
	return nil
}

func (r *runner) add(ctx context.Context, cmd *cli.Command) error {
	name, key, err := parseKeyArgs(cmd)
	if err != nil {
		return err
	}
	catalog, err := r.openCatalog()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	title, err := catalog.Details(ctx, key)
	if err != nil {
		return fmt.Errorf("lookup %s failed: %w", key, err)
	}

	store := r.openLists()
	var res domain.Result
	if name == domain.Watched {
		res = store.MarkWatched(*title).Result
	} else {
		res = store.Add(name, *title)
	}

	if res.OK() {
		fmt.Fprintf(r.out, "Added %s to %s\n", title.DisplayName(), name.Label())
	} else {
		fmt.Fprintln(r.out, res.Message(title.DisplayName(), name))
	}
	return resultError(res)
}

func (r *runner) remove(ctx context.Context, cmd *cli.Command) error {
	name, key, err := parseKeyArgs(cmd)
	if err != nil {
		return err
	}

	store := r.openLists()
	label := key.String()
	for _, rec := range store.Records(name) {
		if rec.Key == key {
			label = rec.Title
			break
		}
	}

	var res domain.Result
	if name == domain.Watched {
		res = store.UnmarkWatched(key).Result
	} else {
		res = store.Remove(name, key.ID, key.MediaType)
	}

	if res.OK() {
		fmt.Fprintf(r.out, "Removed %s from %s\n", label, name.Label())
	} else {
		fmt.Fprintln(r.out, res.Message(label, name))
	}
	return resultError(res)
}

func (r *runner) open(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected <movie|tv> <id>")
	}
	key, err := domain.ParseKey(cmd.Args().Get(0) + ":" + cmd.Args().Get(1))
	if err != nil {
		return err
	}
	url := launcher.TitleURL(key)
	if err := r.openLauncher().Open(url); err != nil {
		return err
	}
	fmt.Fprintln(r.out, url)
	return nil
}

func (r *runner) export(ctx context.Context, cmd *cli.Command) error {
	format, err := lists.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	snap := r.openLists().Export()

	out := r.out
	if path := cmd.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}
	if err := lists.EncodeSnapshot(out, snap, format); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	r.logger.Info("exported lists", "format", format, "output", cmd.String("output"))
	return nil
}

func (r *runner) importLists(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected <file>")
	}
	path := cmd.Args().First()

	formatName := cmd.String("format")
	if formatName == "" {
		formatName = filepath.Ext(path)
	}
	format, err := lists.ParseFormat(formatName)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	snap, err := lists.DecodeSnapshot(f, format)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	mode := lists.ImportMerge
	if cmd.Bool("replace") {
		mode = lists.ImportReplace
	}
	stats, res := r.openLists().Import(snap, mode)
	if !res.OK() {
		return fmt.Errorf("import failed, no lists were changed: %w", res)
	}
	for _, name := range domain.AllLists() {
		fmt.Fprintf(r.out, "%s: %d imported\n", name.Label(), stats[name])
	}
	return nil
}
