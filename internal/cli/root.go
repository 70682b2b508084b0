// Package cli implements the luatable command-line interface.
//
// # Commands
//
// convert - Convert a JSON, YAML, MessagePack or BSON document to a Lua table:
//
//	luatable convert --input config.yaml --output config.lua --preamble "return "
//	cat data.json | luatable convert > data.lua
//	luatable convert --from bson --input dump.bson --max-depth 16
//	luatable convert --config luatable.yaml --input config.yml
//
// formats - List the supported input formats:
//
//	luatable formats
//
// # Configuration
//
// A YAML file passed with --config supplies serializer defaults:
//
//	indent: "  "
//	preamble: "local config = "
//	max_depth: 32
//	max_entries: 100000
//	cycle_detection: true
//
// Flags given on the command line override the file.
//
// # Environment Variables
//
//	LOG_LEVEL    Set logging verbosity (debug, info, warn, error)
package cli

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/zoobzio/luatable/internal/logging"
)

const name = "luatable"

// New returns the root command.
func New(version string) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Convert structured documents into Lua table literals",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log verbosity (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLevel),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			w := cmd.Root().ErrWriter
			if w == nil {
				w = os.Stderr
			}
			return ctx, logging.SetDefault(w, name, version, cmd.String("log-level"))
		},
		Commands: []*cli.Command{
			convertCmd(),
			formatsCmd(),
		},
	}
}
