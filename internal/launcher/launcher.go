package launcher

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/mmcdole/marquee/internal/domain"
)

// TitlePageBase is the public TMDB site, not the API
const TitlePageBase = "https://www.themoviedb.org"

// TitleURL returns the TMDB web page for a title, e.g.
// https://www.themoviedb.org/movie/550
func TitleURL(key domain.Key) string {
	return fmt.Sprintf("%s/%s/%d", TitlePageBase, key.MediaType, key.ID)
}

// Launcher opens URLs in a browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	goos    string
	start   func(name string, args ...string) error
	logger  *slog.Logger
}

// Option configures a Launcher
type Option func(*Launcher)

// WithStarter replaces process creation; tests use it to capture commands
func WithStarter(start func(name string, args ...string) error) Option {
	return func(l *Launcher) {
		l.start = start
	}
}

// WithOS overrides the platform used to pick the system opener
func WithOS(goos string) Option {
	return func(l *Launcher) {
		l.goos = goos
	}
}

// New creates a Launcher. An empty command uses the system default handler.
func New(command string, args []string, logger *slog.Logger, opts ...Option) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Launcher{
		command: command,
		args:    args,
		goos:    runtime.GOOS,
		start:   startDetached,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// startDetached starts the process without waiting for it to exit
func startDetached(name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

// Open opens url in the configured browser or the system default
func (l *Launcher) Open(url string) error {
	if l.command != "" {
		args := append(append([]string{}, l.args...), url)
		l.logger.Info("launching browser", "command", l.command, "args", args)
		if err := l.start(l.command, args...); err != nil {
			return fmt.Errorf("failed to launch %s: %w", l.command, err)
		}
		return nil
	}
	return l.launchDefault(url)
}

// launchDefault opens the URL using the system default handler
func (l *Launcher) launchDefault(url string) error {
	var name string
	var args []string

	switch l.goos {
	case "darwin":
		name, args = "open", []string{url}
	case "windows":
		name, args = "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		name, args = "xdg-open", []string{url}
	}

	l.logger.Info("launching with system default", "os", l.goos, "url", url)
	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}
