package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/spf13/cobra"
)

func newServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Serve == nil {
				return fmt.Errorf("server is not configured")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			listen := domain.FirstNonBlank(addr, a.ServerAddr, ":8080")
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on %s\n", listen)
			return a.Serve(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
