package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rjmcf/dungeonchat-go/internal/console"
	"github.com/rjmcf/dungeonchat-go/internal/relay"
)

// exitDirective is the local console line that shuts the relay down
const exitDirective = "EXIT"

func newRelayCmd() *cobra.Command {
	var statusPort int

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the chat relay server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serverConfig := relay.DefaultServerConfig()
			serverConfig.Port = cfg.Port
			serverConfig.StatusPort = statusPort

			server := relay.NewServer(serverConfig, logger)
			if err := server.Listen(); err != nil {
				return err
			}

			if statusPort > 0 {
				status := relay.NewStatusServer(statusPort, server.Hub(), logger)
				go func() {
					if err := status.Start(); err != nil {
						logger.Error("status server failed", slog.String("error", err.Error()))
					}
				}()
				defer func() {
					if err := status.Shutdown(context.Background()); err != nil {
						logger.Warn("status shutdown", slog.String("error", err.Error()))
					}
				}()
			}

			exit := console.NewWatcher(os.Stdin, exitDirective, logger).Watch(ctx)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Serve(ctx) }()

			select {
			case err := <-errCh:
				return err
			case <-exit:
			case <-ctx.Done():
			}
			server.Shutdown()
			return <-errCh
		},
	}

	cmd.Flags().IntVar(&statusPort, "status-port", 0, "HTTP status endpoint port (0 disables)")
	return cmd
}
