package root

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"become/internal/httpapi"
	"become/internal/ui"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = a.cfg.HTTPAddr
			}
			if a.cfg.LogMode != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewRouter(httpapi.NewHandler(a.svc, a.log), a.log),
				ReadHeaderTimeout: 5 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				a.log.Info("http server stopping")
				return srv.Shutdown(shutdownCtx)
			})
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.IconInfo, ui.Good.Render("Listening on"), addr)
			a.log.Info("http server started", "addr", addr)
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
