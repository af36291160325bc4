package main

import (
	"journey-route-service/internal/config"
	"journey-route-service/internal/platform/obs"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "routectl",
		Short:         "Operate the journey route service: database setup and offline resolves",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			cfg = c
			return obs.Setup(cfg.LogLevel, "console")
		},
	}

	// subcommands read cfg lazily, after PersistentPreRunE has filled it in
	getCfg := func() *config.Config { return cfg }

	root.AddCommand(newDBCmd(getCfg), newResolveCmd(getCfg))
	return root
}
