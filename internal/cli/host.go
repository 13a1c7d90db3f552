package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rjmcf/dungeonchat-go/internal/console"
	"github.com/rjmcf/dungeonchat-go/internal/dependencies/random"
	"github.com/rjmcf/dungeonchat-go/internal/model"
	"github.com/rjmcf/dungeonchat-go/internal/relay"
	"github.com/rjmcf/dungeonchat-go/internal/services/bot"
	"github.com/rjmcf/dungeonchat-go/internal/services/dungeon"
	"github.com/rjmcf/dungeonchat-go/internal/services/session"
)

func newHostCmd() *cobra.Command {
	var (
		mapPath  string
		username string
	)

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Attach a dungeon game session to the relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gameMap := dungeon.Default()
			if mapPath != "" {
				loaded, err := dungeon.LoadFile(mapPath)
				if err != nil {
					return err
				}
				gameMap = loaded
			}

			conn, err := relay.Dial(cfg.Address, cfg.Port, username, logger)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			rnd := random.New()
			sess := session.New(gameMap, bot.NewChaseStrategy(rnd), conn, rnd, logger)
			if err := sess.Setup(); err != nil {
				return err
			}

			// Shutdown coordinator: a local LEAVE tells the relay goodbye and
			// closes the connection, which unblocks the session loop.
			leave := console.NewWatcher(os.Stdin, relay.LeaveDirective, logger).Watch(ctx)
			go func() {
				select {
				case <-leave:
					_ = conn.Send(relay.LeaveDirective)
				case <-ctx.Done():
				}
				_ = conn.Close()
			}()

			err = sess.Run(ctx)
			if errors.Is(err, model.ErrConnClosed) || errors.Is(err, context.Canceled) {
				logger.Info("session ended")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&mapPath, "map", "", "Map file (built-in map when empty)")
	cmd.Flags().StringVar(&username, "username", "DoDClient", "Relay username for the game host")
	return cmd
}
