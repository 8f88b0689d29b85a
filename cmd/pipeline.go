/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"feedstitch/config"
	"feedstitch/fetcher"
	"feedstitch/pipeline"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

// pipelineFlags are shared by every command that runs the pipeline
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to an optional TOML configuration file",
			EnvVars: []string{"FEEDSTITCH_CONFIG"},
		},
		&cli.StringSliceFlag{
			Name:    "endpoint",
			Aliases: []string{"e"},
			Usage:   "Feed endpoint URL, repeat for several feeds",
			EnvVars: []string{"FEEDSTITCH_ENDPOINTS"},
		},
		&cli.BoolFlag{
			Name:    "sequential",
			Usage:   "Fetch the feeds one after another instead of concurrently",
			EnvVars: []string{"FEEDSTITCH_SEQUENTIAL"},
		},
		&cli.IntFlag{
			Name:    "timeout",
			Usage:   "HTTP request timeout in seconds",
			EnvVars: []string{"FEEDSTITCH_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "user-agent",
			Usage:   "User-Agent header sent upstream",
			EnvVars: []string{"FEEDSTITCH_USER_AGENT"},
		},
	}
}

// loadConfig reads the config file and applies any flags that were set
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if ctx.IsSet("endpoint") {
		cfg.Endpoints = ctx.StringSlice("endpoint")
	}
	if ctx.IsSet("sequential") {
		cfg.Sequential = ctx.Bool("sequential")
	}
	if ctx.IsSet("timeout") {
		cfg.TimeoutSeconds = ctx.Int("timeout")
	}
	if ctx.IsSet("user-agent") {
		cfg.UserAgent = ctx.String("user-agent")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config) *fetcher.Fetcher {
	return fetcher.New(
		&http.Client{Timeout: cfg.Timeout()},
		fetcher.WithUserAgent(cfg.UserAgent),
	)
}

func newDriver(cfg *config.Config, f *fetcher.Fetcher) *pipeline.Driver {
	opts := []pipeline.Option{pipeline.WithEndpoints(cfg.Endpoints)}
	if cfg.Sequential {
		opts = append(opts, pipeline.WithSequential())
	}
	return pipeline.New(f, opts...)
}
