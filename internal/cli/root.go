package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dodchat",
		Short: "Chat-relay-driven Dungeon of Doom",
		Long: `dodchat runs the pieces of a chat-driven dungeon crawl.

The relay is a line-oriented chat server; the host attaches a dungeon game to
it so that chat participants can play by typing commands; client and bot are
plain chat participants.`,
		SilenceUsage: true,
	}

	loaded, err := LoadConfig()
	if err != nil {
		loaded = &Config{Address: "localhost", Port: 14001}
	}
	cfg = loaded

	// Global flags (env: DODCHAT_ADDRESS, DODCHAT_PORT, DODCHAT_VERBOSE)
	rootCmd.PersistentFlags().StringVarP(&cfg.Address, "address", "a", cfg.Address, "Relay address")
	rootCmd.PersistentFlags().IntVarP(&cfg.Port, "port", "p", cfg.Port, "Relay port")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Debug logging")

	// Add subcommands
	rootCmd.AddCommand(newHostCmd())
	rootCmd.AddCommand(newRelayCmd())
	rootCmd.AddCommand(newClientCmd())
	rootCmd.AddCommand(newBotCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process-wide JSON logger
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
