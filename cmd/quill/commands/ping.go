package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillsql/quill/internal/config"
	"github.com/quillsql/quill/runtime/client"
)

// NewPingCommand creates the ping command.
func NewPingCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Verify the database connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			c, err := client.Open(cfg.Provider, cfg.DatabaseURL, nil)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			defer c.Disconnect(context.Background())

			if err := c.Connect(ctx); err != nil {
				return fmt.Errorf("connection failed: %w", err)
			}
			color.Green("✓ Connected to %s database", cfg.Provider)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "connection timeout")
	return cmd
}
