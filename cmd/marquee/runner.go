package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/catalog/tmdb"
	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/launcher"
	"github.com/mmcdole/marquee/internal/lists"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tui"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// runner holds the dependencies shared by every command. Config and
// logging are set up in before; storage and the catalog open lazily so
// setup works without either.
type runner struct {
	in  io.Reader
	out io.Writer

	cfg     *config.Config
	logger  *slog.Logger
	closers []io.Closer

	lists    *lists.Store
	catalog  *service.CatalogService
	client   *tmdb.Client
	launcher *launcher.Launcher
}

func newRunner(in io.Reader, out io.Writer) *runner {
	return &runner{in: in, out: out}
}

// before loads configuration and logging for every command
func (r *runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.cfg != nil {
		return ctx, nil
	}

	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return ctx, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ctx, fmt.Errorf("invalid config: %w", err)
	}
	r.cfg = cfg

	logger, closer, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		r.closers = append(r.closers, closer)
	}
	if cmd.Bool("verbose") {
		logger = log.WithConsole(logger, os.Stderr, slog.LevelDebug)
	}
	slog.SetDefault(logger)
	r.logger = logger

	logger.Info("starting marquee", "version", Version, "command", cmd.Name)
	return ctx, nil
}

func (r *runner) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && r.logger != nil {
			r.logger.Warn("close failed", "error", err)
		}
	}
	r.closers = nil
}

// openLists opens the configured storage medium once
func (r *runner) openLists() *lists.Store {
	if r.lists != nil {
		return r.lists
	}
	medium, err := store.Open(&r.cfg.Storage, r.logger)
	if err != nil {
		// The store degrades to empty reads and Unavailable writes
		r.logger.Error("failed to open list storage", "error", err)
		medium = unavailableMedium{err: err}
	} else {
		r.closers = append(r.closers, medium)
	}
	r.lists = lists.New(medium, r.logger)
	return r.lists
}

// openCatalog builds the TMDB client and service once
func (r *runner) openCatalog() (*service.CatalogService, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}
	if !r.cfg.IsConfigured() {
		return nil, fmt.Errorf("no TMDB credentials configured; run `marquee setup`")
	}
	r.client = tmdb.NewClient(r.cfg.TMDB, r.logger)
	r.catalog = service.NewCatalogService(r.client, r.logger)
	return r.catalog, nil
}

func (r *runner) openLauncher() *launcher.Launcher {
	if r.launcher == nil {
		r.launcher = launcher.New(r.cfg.UI.Browser, r.cfg.UI.BrowserArgs, r.logger)
	}
	return r.launcher
}

// browse runs the interactive TUI
func (r *runner) browse(ctx context.Context, cmd *cli.Command) error {
	if !r.cfg.IsConfigured() {
		return r.runSetupFlow(ctx)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the browser needs a terminal; use a subcommand instead (see --help)")
	}

	catalog, err := r.openCatalog()
	if err != nil {
		return err
	}
	store := r.openLists()
	if !store.Available() {
		fmt.Fprintln(os.Stderr, "Warning: list storage is unavailable; changes will not be saved")
	}

	section, err := tui.ParseSection(r.cfg.UI.DefaultSection)
	if err != nil {
		r.logger.Warn("ignoring ui.default_section", "error", err)
	}

	config.Watch(r.logger)

	model := tui.NewModel(catalog, store, tui.Options{
		Opener:       r.openLauncher(),
		Section:      section,
		Debounce:     time.Duration(r.cfg.UI.DebounceMS) * time.Millisecond,
		GridColumns:  r.cfg.UI.GridColumns,
		ImageBaseURL: r.cfg.TMDB.ImageBaseURL,
		Logger:       r.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	r.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		r.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	r.logger.Info("shutting down")
	return nil
}

func (r *runner) setup(ctx context.Context, cmd *cli.Command) error {
	return r.runSetupFlow(ctx)
}

// parseKeyArgs reads "<list> <movie|tv> <id>" positional arguments
func parseKeyArgs(cmd *cli.Command) (domain.ListName, domain.Key, error) {
	args := cmd.Args()
	if args.Len() != 3 {
		return "", domain.Key{}, fmt.Errorf("expected <list> <movie|tv> <id>, got %d arguments", args.Len())
	}
	list, err := domain.ParseListName(args.Get(0))
	if err != nil {
		return "", domain.Key{}, err
	}
	mt, err := domain.ParseMediaType(args.Get(1))
	if err != nil {
		return "", domain.Key{}, err
	}
	id, err := strconv.Atoi(args.Get(2))
	if err != nil || id <= 0 {
		return "", domain.Key{}, fmt.Errorf("invalid id %q", args.Get(2))
	}
	return list, domain.NewKey(id, mt), nil
}

// resultError turns failed mutations into command errors. AlreadyPresent
// and NotPresent are reported but leave the exit status alone.
func resultError(res domain.Result) error {
	switch res.Reason {
	case domain.ReasonNone, domain.ReasonAlreadyPresent, domain.ReasonNotPresent:
		return nil
	default:
		return res
	}
}

// unavailableMedium stands in when the configured medium cannot be opened
type unavailableMedium struct {
	err error
}

func (u unavailableMedium) Get(string) ([]byte, bool, error) { return nil, false, u.err }
func (u unavailableMedium) Set(string, []byte) error         { return u.err }
func (u unavailableMedium) Delete(string) error              { return u.err }
func (u unavailableMedium) Keys() ([]string, error)          { return nil, u.err }
func (u unavailableMedium) Close() error                     { return nil }
