package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/cmdiy/archive-pipeline/internal/batch"
	"github.com/cmdiy/archive-pipeline/internal/config"
	"github.com/cmdiy/archive-pipeline/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.App.LogLevel)

	app := &cli.App{
		Name:  "archive",
		Usage: "Content pipeline for the document archive: previews, markdown records, S3 sync",
		Commands: []*cli.Command{
			newPreviewsCommand(cfg, log),
			newMarkdownCommand(cfg, log),
			newDownloadCommand(cfg, log),
			newUploadCommand(cfg, log),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// newExecutor applies the process-wide concurrency setting with the uniform
// continue-on-error policy shared by every command.
func newExecutor(cfg *config.Config, log zerolog.Logger) *batch.Executor {
	return batch.New(batch.Config{
		Concurrency:     cfg.App.Concurrency,
		ContinueOnError: true,
	}, log)
}
