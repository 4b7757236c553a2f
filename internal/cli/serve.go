package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagopt/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve starts the HTTP API. Cache and store backends come from the
config file; --addr overrides the listen address.

Examples:
  dagopt serve
  dagopt serve --addr :9090 --config ./dagopt.toml`,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			artifacts, err := newCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer artifacts.Close()

			runs, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			if runs != nil {
				defer runs.Close(context.Background())
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.New(cfg, artifacts, runs).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Infof("Listening on %s", cfg.Server.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				logger.Info("Server stopped")
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
