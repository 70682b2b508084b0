package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func formatsCmd() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "List supported input formats",
		Action: func(_ context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			for _, format := range formatNames() {
				src, err := sourceFor(format)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(w, "%s\t%s\n", format, src.ContentType()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
