package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	r := newRunner(os.Stdin, os.Stdout)
	defer r.close()

	if err := newApp(r).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		r.close()
		os.Exit(1)
	}
}

func newApp(r *runner) *cli.Command {
	return &cli.Command{
		Name:    "marquee",
		Usage:   "Browse movies and TV shows and keep a watchlist from the terminal",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log to stderr as well as the log file",
			},
		},
		Before:   r.before,
		Action:   r.browse,
		Commands: r.register(),
	}
}

func (r *runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*runner) *cli.Command){
		setupCommand, searchCommand, trendingCommand, listCommand, addCommand, removeCommand, openCommand, exportCommand, importCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func setupCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Configure TMDB credentials",
		Action: r.setup,
	}
}

func searchCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search TMDB for movies and TV shows",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page",
				Value: 1,
			},
		},
		Action: r.search,
	}
}

func trendingCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:  "trending",
		Usage: "Show trending titles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "window",
				Usage: "Trending window (day or week)",
				Value: "week",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Restrict to movie or tv",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "Fuzzy filter the page by title",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page",
				Value: 1,
			},
		},
		Action: r.trending,
	}
}

func listCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "Print a saved list (watchlist, favorites, watched)",
		ArgsUsage: "<list>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "filter",
				Usage: "Fuzzy filter on titles",
			},
		},
		Action: r.list,
	}
}

func addCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a title to a list",
		ArgsUsage: "<list> <movie|tv> <id>",
		Action:    r.add,
	}
}

func removeCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove a title from a list",
		ArgsUsage: "<list> <movie|tv> <id>",
		Action:    r.remove,
	}
}

func openCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open a title's TMDB page in the browser",
		ArgsUsage: "<movie|tv> <id>",
		Action:    r.open,
	}
}

func exportCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write all lists to a backup file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (json or toml)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default stdout)",
			},
		},
		Action: r.export,
	}
}

func importCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Restore lists from a backup file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Input format (json or toml, default from extension)",
			},
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Replace the lists instead of merging",
			},
		},
		Action: r.importLists,
	}
}
