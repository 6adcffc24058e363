package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/staffx/internal/dataset"
	"github.com/desertthunder/staffx/internal/shared"
	"github.com/urfave/cli/v3"
)

// payloadInfo is printed by fetch --records.
type payloadInfo struct {
	Path    string   `json:"path"`
	Shape   string   `json:"shape"`
	Records int      `json:"records"`
	Columns []string `json:"columns"`
}

// Fetch makes a GET request to the source API and prints the body.
//
// The target is "users", "employees" or a path starting with "/".
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	target := cmd.StringArg("target")
	if target == "" {
		return fmt.Errorf("%w: target (users, employees or /path)", shared.ErrMissingArgument)
	}

	loaded, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	config := *loaded
	if cmd.IsSet("base-url") {
		config.Source.BaseURL = cmd.String("base-url")
	}

	path, key, err := resolveTarget(&config, target)
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "base_url", config.Source.BaseURL, "path", path)

	body, err := r.newSource(&config).FetchJSON(ctx, path)
	if err != nil {
		return err
	}

	if cmd.Bool("records") {
		payload, err := dataset.ParsePayload(body)
		if err != nil {
			return err
		}
		records, err := payload.Records(key)
		if err != nil {
			return err
		}
		columns := dataset.FromRecords(records).Columns()
		return r.writeJSON(payloadInfo{Path: path, Shape: payload.Shape().String(), Records: len(records), Columns: columns}, cmd.Bool("pretty"))
	}

	if cmd.Bool("pretty") {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrDecode, err)
		}
		body = buf.Bytes()
	}

	r.output.Write(body)
	r.output.Write([]byte("\n"))
	return nil
}

// resolveTarget maps a fetch target to a request path and the list key for keyed payloads.
func resolveTarget(config *shared.Config, target string) (string, string, error) {
	switch {
	case target == "users":
		return config.Source.UsersPath, config.Source.UsersKey, nil
	case target == "employees":
		return config.Source.EmployeesPath, config.Source.EmployeesKey, nil
	case strings.HasPrefix(target, "/"):
		key := strings.Trim(target, "/")
		if i := strings.LastIndex(key, "/"); i >= 0 {
			key = key[i+1:]
		}
		return target, key, nil
	default:
		return "", "", fmt.Errorf("%w: unknown target %q, expected users, employees or a /path", shared.ErrInvalidArgument, target)
	}
}
