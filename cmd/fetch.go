/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// fetchCmd runs the pipeline once and prints the result
func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Run the pipeline once and print the sections",
		Description: `Fetches both feeds, merges their items and resolves the
cascade record if one of the merged items points at it.

Prints each section as a JSON object on a single line. Use a tool like jq to
process the output. With --records the combined upstream records are printed
instead, in the upstream wire format.

Prints all other log messages to stderr.`,
		Flags: append(pipelineFlags(),
			&cli.BoolFlag{
				Name:  "records",
				Usage: "Print the combined feed records instead of the sections",
			},
		),
		Action: func(ctx *cli.Context) error {
			// Keep stdout for JSON output only
			log.SetOutput(os.Stderr)

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			driver := newDriver(cfg, newFetcher(cfg))

			if ctx.Bool("records") {
				records, err := driver.FetchRecords(ctx.Context)
				if err != nil {
					return err
				}
				for _, record := range records {
					if err := printStdout(record); err != nil {
						return err
					}
				}
				return nil
			}

			sections, err := driver.Run(ctx.Context)
			if err != nil {
				return err
			}
			for _, section := range sections {
				if err := printStdout(section); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// printStdout prints v as a single line of JSON
func printStdout(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
