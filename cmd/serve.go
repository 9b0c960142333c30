package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/bandprep/internal/identity"
	"github.com/abhisek/bandprep/internal/resultsrv"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a development results endpoint backed by the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		addr := rt.cfg.ServerAddr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		issuer := identity.NewIssuer(rt.cfg.JWTSecret, rt.cfg.TokenTTL)
		srv := &http.Server{
			Addr:              addr,
			Handler:           resultsrv.New(rt.store.ResultRepo(), issuer, rt.log).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()
		fmt.Printf("Results endpoint listening on %s (POST %s)\n", addr, resultsrv.ResultsPath)
		rt.log.Info().Str("addr", addr).Msg("results server started")

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rt.log.Info().Msg("results server stopping")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides BANDPREP_SERVER_ADDR)")
}
