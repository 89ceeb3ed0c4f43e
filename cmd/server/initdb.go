package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the relational store schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := initStore(cfg, logger); err != nil {
				logger.Error("Store initialization failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
}
