package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fsmkit/pkg/redis"
)

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the configured Redis connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.Redis.Enabled() {
				return fmt.Errorf("%sREDIS_URL is not set", envPrefix)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			client, err := redis.Connect(ctx, a.cfg.Redis)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := redis.Healthcheck(client)(ctx); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "redis: ok")
			return err
		},
	}
}
