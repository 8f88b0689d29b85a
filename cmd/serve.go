/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"feedstitch/server"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the sections over HTTP",
		Description: `Starts the feedstitch HTTP server.

Every request to /sections runs the pipeline against the upstream feeds and
returns the ordered sections as JSON. Nothing is cached between requests.
/thumbnail proxies item thumbnails, /records returns the combined upstream
records and /metrics exposes Prometheus metrics.`,
		Flags: append(pipelineFlags(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   3000,
				Usage:   "Port to listen on",
				EnvVars: []string{"FEEDSTITCH_PORT"},
			},
			&cli.StringFlag{
				Name:    "allow-origins",
				Value:   "*",
				Usage:   "Comma separated list of origins allowed by CORS",
				EnvVars: []string{"FEEDSTITCH_ALLOW_ORIGINS"},
			},
		),
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			f := newFetcher(cfg)
			app := server.Server(&server.ServerConfig{
				Pipeline:     newDriver(cfg, f),
				Thumbnails:   f,
				AllowOrigins: ctx.String("allow-origins"),
			})

			// Graceful shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				log.Info("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(60 * time.Second); err != nil {
					log.Errorf("Error shutting down server: %v", err)
				}
			}()

			addr := fmt.Sprintf(":%d", ctx.Int("port"))
			log.WithFields(log.Fields{
				"addr":      addr,
				"endpoints": cfg.Endpoints,
			}).Info("Starting server")

			return app.Listen(addr)
		},
	}
}
