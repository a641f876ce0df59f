package main

import (
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/cmdiy/archive-pipeline/internal/config"
	"github.com/cmdiy/archive-pipeline/internal/preview"
)

func newPreviewsCommand(cfg *config.Config, log zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "generate-previews",
		Usage: "Render page one of each source PDF to a preview image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Usage:   "Directory containing source PDFs",
				Value:   "./pdfs/pdfSource",
				EnvVars: []string{"PREVIEW_SOURCE_DIR"},
			},
			&cli.StringFlag{
				Name:    "output",
				Usage:   "Directory to write preview images into",
				Value:   "./pdfs/pdfOutput",
				EnvVars: []string{"PREVIEW_OUTPUT_DIR"},
			},
			&cli.StringFlag{
				Name:  "image-format",
				Usage: "Raster format for previews (jpeg, png, gif)",
				Value: "jpeg",
			},
			&cli.IntFlag{
				Name:  "image-width",
				Usage: "Preview width in pixels",
				Value: 1024,
			},
			&cli.IntFlag{
				Name:  "image-height",
				Usage: "Preview height in pixels (0 derives it from the aspect ratio)",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "preserve-aspect-ratio",
				Usage: "Fit the page inside width x height instead of stretching",
				Value: true,
			},
			&cli.Float64Flag{
				Name:  "density",
				Usage: "Rasterization DPI for the PDF page",
				Value: 150,
			},
		},
		Action: func(c *cli.Context) error {
			renderer := preview.NewRenderer(preview.Options{
				Format:              c.String("image-format"),
				Width:               c.Int("image-width"),
				Height:              c.Int("image-height"),
				PreserveAspectRatio: c.Bool("preserve-aspect-ratio"),
				Density:             c.Float64("density"),
			}, newExecutor(cfg, log), log)

			res, err := renderer.Run(c.Context, c.String("source"), c.String("output"))
			if err != nil {
				return err
			}
			return res.Err()
		},
	}
}
