/**
 * @description
 * The serve command starts the webhook server. It loads the configuration,
 * reads the lexoffice webhook public key, wires the HTTP layer and runs the
 * server until an OS signal asks for a graceful shutdown.
 */
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupebln/autolex/internal/api"
	"github.com/hupebln/autolex/internal/signature"
	"github.com/hupebln/autolex/pkg/logging"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lexoffice webhook server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "the hostname to listen on")
	serveCmd.Flags().StringVar(&servePort, "port", "", "the port of the webserver (defaults to SERVER_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	publicKey, err := signature.LoadPublicKey(cfg.LexofficePubkeyPath)
	if err != nil {
		return fmt.Errorf("failed to load the webhook public key: %w", err)
	}

	lexoffice, reconciler := buildClients(cfg)
	handler := api.NewWebhookHandler(publicKey, lexoffice, reconciler)
	router := api.NewRouter(handler)

	port := cfg.ServerPort
	if servePort != "" {
		port = servePort
	}

	server := &http.Server{
		Addr:    net.JoinHostPort(serveHost, port),
		Handler: router,
	}

	go func() {
		logging.Info().Str("addr", server.Addr).Msg("starting webhook server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for an OS signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logging.Info().Msg("shutdown signal received, gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logging.Info().Msg("server stopped")
	return nil
}
