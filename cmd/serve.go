package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chemviz/chemviz/pkg/server"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("address") {
			cfg.Address = serveAddress
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Launch(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address, overrides address from the config")
}
