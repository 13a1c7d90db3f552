package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rjmcf/dungeonchat-go/internal/chatbot"
	"github.com/rjmcf/dungeonchat-go/internal/console"
	"github.com/rjmcf/dungeonchat-go/internal/dependencies/clock"
	"github.com/rjmcf/dungeonchat-go/internal/model"
	"github.com/rjmcf/dungeonchat-go/internal/relay"
)

func newBotCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Join the relay as the canned-response chat bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conn, err := relay.Dial(cfg.Address, cfg.Port, username, logger)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			leave := console.NewWatcher(os.Stdin, relay.LeaveDirective, logger).Watch(ctx)
			go func() {
				select {
				case <-leave:
					_ = conn.Send(relay.LeaveDirective)
				case <-ctx.Done():
				}
				_ = conn.Close()
			}()

			err = chatbot.New(username, conn, clock.New(), logger).Run(ctx)
			if errors.Is(err, model.ErrConnClosed) || errors.Is(err, context.Canceled) {
				logger.Info("chat bot stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&username, "username", chatbot.DefaultUsername, "Relay username for the bot")
	return cmd
}
