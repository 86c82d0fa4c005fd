package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"promptdex/internal/logging"
	"promptdex/internal/query"
	"promptdex/internal/server"
)

const shutdownGrace = 5 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only query API over HTTP",
		Long: `Serve loads the published dataset into memory and answers search, random,
and stats requests over HTTP. The server starts even when no dataset has
been published yet; queries return 503 until a build completes, at which
point the snapshot is picked up automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			addr := cfg.Paths.APIBind
			if bind != "" {
				addr = bind
			}

			engine := query.NewEngine(cfg.Paths.DatasetDir, ctx.loadTimeout(), logger)
			if err := engine.Load(cmd.Context()); err != nil {
				if !errors.Is(err, query.ErrUnavailable) {
					return err
				}
				logger.Warn("serving without a dataset until one is published",
					logging.String("dataset_dir", cfg.Paths.DatasetDir))
			}

			srv := server.New(addr, engine, cfg.Paths.DatasetDir, logger)

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(sigCtx); err != nil {
				return err
			}
			<-sigCtx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides api_bind from config)")
	return cmd
}
