package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdxmigrate/internal/api"
	"github.com/dgallion1/mdxmigrate/internal/csf"
	"github.com/dgallion1/mdxmigrate/internal/headings"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP preview service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := api.NewServer(
			csf.NewSplitter(csfOptions(cfg.Conventions)),
			headings.NewNormalizer(cfg.Conventions.SharedModuleMarker),
			log,
			cfg,
		)

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Graceful shutdown.
		go func() {
			<-ctx.Done()
			log.Info("shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Info("starting mdxmigrate preview", "port", cfg.Port, "auth", cfg.APIKey != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
