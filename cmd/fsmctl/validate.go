package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fsmkit/pkg/definition"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check definition files for errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				bp, err := definition.LoadFile(path,
					definition.WithRegistry(builtins(a.logger)),
					definition.WithLogger(a.logger),
				)
				if err != nil {
					return err
				}
				def := bp.Definition
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d states, %d inputs, %d transitions, initial %s)\n",
					path, len(def.States()), len(def.Inputs()), len(def.Transitions()), def.Initial()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
