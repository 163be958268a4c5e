package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/patternkit/patternkit/internal/patterns"
	"github.com/patternkit/patternkit/internal/prompt"
	"github.com/spf13/cobra"
)

func newInteractiveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Validate values one at a time from a menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			logger, closeLog, err := openResultLog(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session := prompt.New(patterns.Default, cmd.InOrStdin(), cmd.OutOrStdout())
			session.SetResultLogger(logger)
			return session.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	return cmd
}
