package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bugnest/bugnest/pkg/service/render"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdRender() *cli.Command {
	var format string
	var noColor bool

	return &cli.Command{
		Name:      "render",
		Usage:     "Render stored text with mention tokens (reads stdin when no argument is given)",
		ArgsUsage: "[text]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Output format (terminal, html)",
				Value:       "terminal",
				Destination: &format,
			},
			&cli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output (also disabled when stdout is not a terminal or NO_COLOR is set)",
				Sources:     cli.EnvVars("NO_COLOR"),
				Destination: &noColor,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.Join(c.Args().Slice(), " ")
			if c.Args().Len() == 0 {
				data, err := io.ReadAll(c.Root().Reader)
				if err != nil {
					return goerr.Wrap(err, "failed to read stdin")
				}
				text = string(data)
			}

			switch format {
			case "terminal":
				_, _ = fmt.Fprintln(c.Root().Writer, render.NewTerminal(noColor || color.NoColor).Render(text))
			case "html":
				_, _ = fmt.Fprintln(c.Root().Writer, render.HTML(text))
			default:
				return goerr.New("invalid format", goerr.V("format", format))
			}
			return nil
		},
	}
}
