/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"feedstitch/config"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:    "feedstitch",
		Usage:   "Stitch two JSON item feeds into display sections",
		Version: config.Version,
		Description: `Fetches the first and second item feeds, merges items that
		share an id into a single item and orders them by descending id.

		When a merged item's text is itself an https URL, the record at that
		URL is fetched and shown as a second, full-width section.

		Flags can generally be set via environment variables, e.g.:

		--config => FEEDSTITCH_CONFIG=feedstitch.toml
		--port => FEEDSTITCH_PORT=3000
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"FEEDSTITCH_LOG_LEVEL"},
			},
		},
		Before: func(ctx *cli.Context) error {
			level, err := log.ParseLevel(ctx.String("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			fetchCmd(),
			serveCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
