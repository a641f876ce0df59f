package main

import (
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/cmdiy/archive-pipeline/internal/config"
	"github.com/cmdiy/archive-pipeline/internal/markdown"
)

func newMarkdownCommand(cfg *config.Config, log zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "generate-markdown",
		Usage: "Emit one front-matter markdown record per source PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Usage:    "Directory containing source PDFs",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Usage:    "Directory to write markdown records into",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "aws-location",
				Usage:    "Base URL of the hosted assets (e.g. https://bucket.s3.amazonaws.com)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "prefix",
				Usage:    "Namespace prefix for remote asset URLs",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			gen := markdown.NewGenerator(
				c.String("prefix"),
				c.String("aws-location"),
				c.String("output"),
				newExecutor(cfg, log),
				log,
			)

			res, err := gen.Run(c.Context, c.String("source"))
			if err != nil {
				return err
			}
			return res.Err()
		},
	}
}
