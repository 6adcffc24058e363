// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

// runCommand executes the full pipeline
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Fetch, join, clean, pad and export users & employees as CSV",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "CSV output path (overrides output.path)",
			},
			&cli.IntFlag{
				Name:  "rows",
				Usage: "Minimum number of output rows (overrides pipeline.target_rows)",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Random seed for synthetic data and sampled features",
			},
			&cli.StringFlag{
				Name:  "now",
				Usage: "Fixed clock as RFC 3339, e.g. 2025-01-01T00:00:00Z",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Source API base URL (overrides source.base_url)",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show an interactive progress display",
			},
			&cli.BoolFlag{
				Name:  "no-ledger",
				Usage: "Do not record this run in the database",
			},
		},
		Action: r.Run,
	}
}

// fetchCommand prints a single source payload
func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "GET users, employees or a raw path from the source API and print the JSON",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "target",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:  "records",
				Usage: "Print payload shape, record count and columns instead of the body",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Source API base URL (overrides source.base_url)",
			},
		},
		Action: r.Fetch,
	}
}

// serveCommand runs the local fixture API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve generated users & employees for local runs",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Bind host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Bind port (overrides server.port)",
			},
			&cli.IntFlag{
				Name:  "rows",
				Usage: "Users and employees to generate (overrides server.fixture_rows)",
			},
			&cli.BoolFlag{
				Name:  "keyed",
				Usage: "Wrap lists as {\"users\": [...]} and {\"employees\": [...]}",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Fixture seed",
				Value: 1,
			},
		},
		Action: r.Serve,
	}
}

// runsCommand inspects the run ledger
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect recorded pipeline runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (running, succeeded, failed)",
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Filter failed runs by error kind",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
				},
				Action: r.RunsList,
			},
			{
				Name:  "show",
				Usage: "Show a single run",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "id",
						Usage: "Run ID",
					},
					&cli.IntFlag{
						Name:  "seq",
						Usage: "Run sequence number",
					},
				},
				Action: r.RunsShow,
			},
			{
				Name:  "delete",
				Usage: "Remove a run from listings",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Run ID",
						Required: true,
					},
				},
				Action: r.RunsDelete,
			},
		},
	}
}

// setupCommand handles configuration & database initialization
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file or initialize the run ledger",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
