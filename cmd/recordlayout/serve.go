package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-recordlayout/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Serve rendered layouts over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	addr := env.cfg.Server.Addr
	if flag, _ := cmd.Flags().GetString("addr"); flag != "" {
		addr = flag
	}

	srv, err := server.New(env.pipeline, server.WithLogger(env.logger), server.WithThemes(env.themes))
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		env.logger.Info("serving record layouts", "addr", addr)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	env.logger.Info("shutting down")
	return httpServer.Shutdown(ctx)
}
