package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rjmcf/dungeonchat-go/internal/chat"
	"github.com/rjmcf/dungeonchat-go/internal/model"
	"github.com/rjmcf/dungeonchat-go/internal/relay"
)

func newClientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "client",
		Short: "Join the relay as an interactive chat participant",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			username, err := chat.ReadUsername(os.Stdin, os.Stdout)
			if err != nil {
				return err
			}

			conn, err := relay.Dial(cfg.Address, cfg.Port, username, logger)
			if err != nil {
				return err
			}

			client := chat.NewClient(conn, os.Stdin, os.Stdout, logger)
			err = client.Run(ctx)
			if errors.Is(err, model.ErrConnClosed) || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				logger.Info("disconnected from relay")
				return nil
			}
			return err
		},
	}
}
