package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/marquee/internal/catalog/tmdb"
	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"golang.org/x/term"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// runSetupFlow prompts for a TMDB credential, checks it, and saves it
func (r *runner) runSetupFlow(ctx context.Context) error {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Welcome to Marquee!")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Marquee needs a TMDB API key or read access token.")
	fmt.Fprintln(r.out, "Create one at https://www.themoviedb.org/settings/api")
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		credential, err := r.readCredential(reader)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if credential == "" {
			fmt.Fprintln(r.out, "Credential cannot be empty. Please try again.")
			continue
		}

		tmdbCfg := r.cfg.TMDB
		// v4 read access tokens are JWTs
		if strings.HasPrefix(credential, "eyJ") {
			tmdbCfg.AccessToken, tmdbCfg.APIKey = credential, ""
		} else {
			tmdbCfg.APIKey, tmdbCfg.AccessToken = credential, ""
		}

		if err := r.validateWithSpinner(ctx, tmdbCfg); err != nil {
			fmt.Fprintf(r.out, "\n✗ Could not verify credential: %v\n", err)
			fmt.Fprintln(r.out, "Please check it and try again.")
			fmt.Fprintln(r.out)
			continue
		}

		r.cfg.TMDB = tmdbCfg
		break
	}

	if err := config.SaveConfig(r.cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "✓ Configuration saved!")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Run marquee again to start browsing.")
	return nil
}

// readCredential reads without echo when stdin is a terminal
func (r *runner) readCredential(reader *bufio.Reader) (string, error) {
	fmt.Fprint(r.out, "TMDB API key or access token: ")
	if f, ok := r.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(r.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// validateWithSpinner checks the credential against TMDB with a visual spinner
func (r *runner) validateWithSpinner(ctx context.Context, cfg config.TMDBConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- tmdb.NewClient(cfg, r.logger).Validate(ctx)
	}()

	frame := 0
	fmt.Fprintf(r.out, "\r%s Checking credential...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Fprint(r.out, clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Fprintln(r.out, "✓ Credential accepted")
			return nil

		case <-ticker.C:
			frame++
			fmt.Fprintf(r.out, "\r%s Checking credential...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Fprint(r.out, clearSpinnerLine)
			return fmt.Errorf("validation timed out")
		}
	}
}
