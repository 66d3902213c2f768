package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kernelbot/hypercorn/internal/webapi"
)

func newServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [dataset]",
		Short: "Serve a dataset over HTTP",
		Long: `Serve a dataset over HTTP for dashboards and notebooks.

Endpoints:
  GET /api/health   Liveness probe
  GET /api/dataset  Row count and column names
  GET /api/sample   Random batch (?count=, ?seed=)
  GET /api/stats    Full dataset profile (computed once, then cached)
  GET /             Dataset card (DATASET.md or README.md next to the file)

The server runs until interrupted and shuts down gracefully.

If no dataset is specified, dataset.path from .hypercorn.yaml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from .hypercorn.yaml)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string, port int) error {
	ds, cfg, err := openDataset(cmd, args, 0, false)
	if err != nil {
		return err
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	webapi.Version = version
	logger := slog.Default()
	srv := webapi.New(webapi.Config{Port: port, Logger: logger}, webapi.NewService(ds))

	logger.Info("serving dataset", "path", ds.Path(), "rows", ds.Len(), "port", port)
	return srv.ListenAndServe(ctx)
}
