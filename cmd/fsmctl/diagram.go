package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fsmkit/pkg/definition"
	"github.com/dmitrymomot/fsmkit/pkg/diagram"
)

func newDiagramCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "diagram FILE",
		Short: "Render a definition as Graphviz DOT, Mermaid or a QuickChart URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := definition.LoadFile(args[0],
				definition.WithRegistry(builtins(a.logger)),
				definition.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}

			var out string
			switch format {
			case "dot":
				out = diagram.DOT(bp.Definition) + "\n"
			case "mermaid":
				out = diagram.Mermaid(bp.Definition)
			case "url":
				out = diagram.QuickChartURL(diagram.DOT(bp.Definition)) + "\n"
			default:
				return fmt.Errorf("unknown diagram format %q: use dot, mermaid or url", format)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, mermaid or url")
	return cmd
}
