package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tracker/internal/cli"
	apphttp "tracker/internal/http"
	"tracker/internal/log"
)

const (
	shutdownTimeout      = 30 * time.Second
	cacheCleanupInterval = 5 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger as a local JSON API",
	Long: `Serve the ledger over HTTP until interrupted.

The listen address comes from BIND_ADDR and PORT. Mutations are saved
to the configured data backend as they happen and published to AMQP
when AMQP_URL is set.

Example:
  PORT=8081 tracker serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		srv := apphttp.NewServer(appCfg.Addr(), apphttp.Deps{
			Store:     app.Store,
			Service:   app.Service,
			Session:   app.Session,
			Logger:    app.Logger,
			CacheSize: appCfg.CacheSize,
			CacheTTL:  appCfg.CacheTTL,
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			app.Logger.InfoContext(gctx, "Starting tracker server",
				"addr", srv.Addr, "backend", appCfg.DataBackend, log.FieldLedgerSize, app.Store.Len())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			return srv.RunCacheCleanup(gctx, cacheCleanupInterval)
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			app.Logger.ErrorContext(ctx, "Server error", log.FieldError, err)
			return err
		}
		app.Logger.Info("Server stopped gracefully")
		return nil
	})
}
