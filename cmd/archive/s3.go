package main

import (
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/cmdiy/archive-pipeline/internal/config"
	"github.com/cmdiy/archive-pipeline/internal/storage"
	"github.com/cmdiy/archive-pipeline/internal/syncer"
)

func newRegionFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "region",
		Usage:   "AWS region",
		Value:   "us-east-1",
		EnvVars: []string{"AWS_REGION"},
	}
}

func newStore(c *cli.Context, cfg *config.Config, log zerolog.Logger, bucket string, maxKeys int, dryRun bool) (storage.ObjectStorage, error) {
	return storage.NewS3Client(storage.S3Config{
		Bucket:   bucket,
		Region:   c.String("region"),
		Endpoint: cfg.S3.Endpoint,
		UseSSL:   cfg.S3.UseSSL,
		MaxKeys:  maxKeys,
		DryRun:   dryRun,
	}, log)
}

func newDownloadCommand(cfg *config.Config, log zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "s3-download",
		Usage: "Mirror every object under a key prefix into a local directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "bucket",
				Usage:    "S3 bucket to read from",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Key prefix to list under",
				Value: "",
			},
			newRegionFlag(),
			&cli.StringFlag{
				Name:  "output",
				Usage: "Directory to mirror objects into",
				Value: "./downloads",
			},
			&cli.IntFlag{
				Name:  "max-keys",
				Usage: "Page size hint per listing round trip",
				Value: 1000,
			},
		},
		Action: func(c *cli.Context) error {
			store, err := newStore(c, cfg, log, c.String("bucket"), c.Int("max-keys"), false)
			if err != nil {
				return err
			}

			d := syncer.NewDownloader(store, newExecutor(cfg, log), log)
			res, err := d.Run(c.Context, c.String("prefix"), c.String("output"))
			if err != nil {
				return err
			}
			return res.Err()
		},
	}
}

func newUploadCommand(cfg *config.Config, log zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "s3-upload",
		Usage: "Upload tracked local files into the category key layout",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "bucket",
				Usage:   "S3 bucket to write to",
				Value:   "cmdiy-archive",
				EnvVars: []string{"ARCHIVE_BUCKET"},
			},
			newRegionFlag(),
			&cli.StringFlag{
				Name:  "source",
				Usage: "Local tree to upload",
				Value: "./pdfs",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Top-level remote key category",
				Value: "misc",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Log the keys that would be written without uploading",
				Value: false,
			},
		},
		Action: func(c *cli.Context) error {
			store, err := newStore(c, cfg, log, c.String("bucket"), 0, c.Bool("dry-run"))
			if err != nil {
				return err
			}

			u := syncer.NewUploader(store, c.String("category"), newExecutor(cfg, log), log)
			res, err := u.Run(c.Context, c.String("source"))
			if err != nil {
				return err
			}
			return res.Err()
		},
	}
}
