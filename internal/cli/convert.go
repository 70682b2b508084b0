package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zoobzio/luatable"
)

// stdio selects stdin or stdout in place of a file path.
const stdio = "-"

func convertCmd() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a document to a Lua table literal",
		Description: `Reads a JSON, YAML, MessagePack or BSON document and writes it as a Lua
table constructor. Map and object keys keep their document order.

The input format is taken from --from, then from the input file extension
(.json, .yaml, .yml, .msgpack, .mpk, .bson), and defaults to json.

# Examples

  luatable convert --input config.yaml --output config.lua --preamble "return "
  cat data.json | luatable convert --indent "  "`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "from",
				Aliases: []string{"f"},
				Usage:   "Input format (json, yaml, msgpack, bson)",
			},
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Value:   stdio,
				Usage:   "Input file path, - for stdin",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   stdio,
				Usage:   "Output file path, - for stdout",
			},
			&cli.StringFlag{
				Name:  "indent",
				Value: luatable.DefaultIndent,
				Usage: "Indentation unit per nesting level (spaces and tabs only)",
			},
			&cli.StringFlag{
				Name:  "preamble",
				Usage: `Text written before the table, e.g. "return " or "local config = "`,
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Value: luatable.DefaultMaxDepth,
				Usage: "Deepest table nesting allowed",
			},
			&cli.IntFlag{
				Name:  "max-entries",
				Usage: "Maximum number of table entries written, 0 for unlimited",
			},
			&cli.BoolFlag{
				Name:  "no-cycle-check",
				Usage: "Disable self-reference detection; cycles then fail on the depth limit",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML file with serializer defaults",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := optionsFromCmd(cmd)
			if err != nil {
				return err
			}

			input := cmd.String("input")
			format, err := resolveFormat(cmd.String("from"), input)
			if err != nil {
				return err
			}
			src, err := sourceFor(format)
			if err != nil {
				return err
			}

			s, err := luatable.New(opts...)
			if err != nil {
				return fmt.Errorf("invalid serializer settings: %w", err)
			}

			data, err := readInput(cmd.Root().Reader, input)
			if err != nil {
				return err
			}

			start := time.Now()
			v, err := luatable.Decode(ctx, src, data)
			if err != nil {
				slog.Error("failed to decode input", "error", err, "format", format, "input", input)
				return err
			}

			output := cmd.String("output")
			if err := writeOutput(ctx, cmd.Root().Writer, output, s, v); err != nil {
				slog.Error("failed to convert", "error", err, "format", format, "input", input)
				return err
			}

			slog.Debug("converted document",
				slog.String("format", format),
				slog.String("input", input),
				slog.String("output", output),
				slog.Int("input_bytes", len(data)),
				slog.Duration("duration", time.Since(start)),
			)
			return nil
		},
	}
}

// optionsFromCmd layers the config file under the explicitly set flags.
func optionsFromCmd(cmd *cli.Command) ([]luatable.Option, error) {
	var opts []luatable.Option
	if path := cmd.String("config"); path != "" {
		settings, err := LoadSettings(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, settings.Options()...)
	}

	if cmd.IsSet("indent") {
		opts = append(opts, luatable.WithIndent(cmd.String("indent")))
	}
	if cmd.IsSet("preamble") {
		opts = append(opts, luatable.WithPreamble(cmd.String("preamble")))
	}
	if cmd.IsSet("max-depth") {
		opts = append(opts, luatable.WithMaxDepth(cmd.Int("max-depth")))
	}
	if cmd.IsSet("max-entries") {
		opts = append(opts, luatable.WithMaxEntries(cmd.Int("max-entries")))
	}
	if cmd.IsSet("no-cycle-check") {
		opts = append(opts, luatable.WithCycleDetection(!cmd.Bool("no-cycle-check")))
	}
	return opts, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == stdio {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %q: %w", path, err)
	}
	return data, nil
}

// writeOutput serializes v to stdout or a file. The file is only created
// once serialization has succeeded.
func writeOutput(ctx context.Context, stdout io.Writer, path string, s *luatable.Serializer, v luatable.Value) error {
	if path == "" || path == stdio {
		if stdout == nil {
			stdout = os.Stdout
		}
		return s.Encode(ctx, stdout, v)
	}

	text, err := s.Serialize(ctx, v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output %q: %w", path, err)
	}
	return nil
}
