package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/staffx/internal/server"
	"github.com/desertthunder/staffx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the fixture API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	loaded, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	config := *loaded
	if cmd.IsSet("host") {
		config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		config.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("rows") {
		config.Server.FixtureRows = cmd.Int("rows")
	}
	if cmd.IsSet("keyed") {
		config.Server.Keyed = cmd.Bool("keyed")
	}

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidArgument, config.Server.Port)
	}
	if config.Server.FixtureRows < 0 {
		return fmt.Errorf("%w: --rows must not be negative", shared.ErrInvalidArgument)
	}

	fixtures, err := server.NewFixtureHandler(server.FixtureOpts{
		Rows:  config.Server.FixtureRows,
		Seed:  cmd.Uint64("seed"),
		Keyed: config.Server.Keyed,
	})
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "fixtures")

	router := server.NewBasicRouter()
	router.Use(server.RecoverMiddleware(logger), server.LoggingMiddleware(logger))
	router.Handler(fixtures)

	logger.Info("generated fixtures",
		"users", len(fixtures.Users()), "employees", len(fixtures.Employees()), "keyed", config.Server.Keyed)
	logger.Debug("mounted routes", "routes", router.Routes())
	r.writePlain("Serving /users/ and /employees/ at http://%s (Ctrl+C to stop)\n", config.ServerAddress())

	return server.NewServer(config.ServerAddress(), router, logger).ListenAndServe(ctx)
}
