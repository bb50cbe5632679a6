package main

import (
	"github.com/ferrypratamaa-00/monii-sub001/internal/config"
	"github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/dynamo"
	"github.com/spf13/cobra"
)

func newBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the DynamoDB tables if they don't exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)
			client, err := dynamo.NewClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			dynamo.Bootstrap(cmd.Context(), client, cfg.DynamoTables)
			return nil
		},
	}
}
