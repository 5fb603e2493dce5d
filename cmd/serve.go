package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/proc-sim/internal/server"
)

var (
	serveAddr     string
	serveDBPath   string
	serveMaxTicks int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts := []server.Option{server.WithMaxTicks(serveMaxTicks)}
		if serveDBPath != "" {
			st, err := openStore(ctx, serveDBPath)
			if err != nil {
				logrus.Fatalf("Failed to open run history: %v", err)
			}
			defer st.Close()
			opts = append(opts, server.WithStore(st))
		}

		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           server.New(opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logrus.Errorf("Shutdown: %v", err)
			}
		}()

		logrus.Infof("Listening on %s", serveAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
		logrus.Info("Server stopped")
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "SQLite database to record runs in (enables /api/v1/runs)")
	serveCmd.Flags().Int64Var(&serveMaxTicks, "max-ticks", server.DefaultMaxTicks, "Largest workload (last arrival + total burst) a request may submit")

	rootCmd.AddCommand(serveCmd)
}
