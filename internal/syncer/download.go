package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cmdiy/archive-pipeline/internal/batch"
	"github.com/cmdiy/archive-pipeline/internal/storage"
)

// Downloader mirrors every object under a remote prefix into a local
// directory tree.
type Downloader struct {
	store storage.ObjectStorage
	exec  *batch.Executor
	log   zerolog.Logger
}

func NewDownloader(store storage.ObjectStorage, exec *batch.Executor, log zerolog.Logger) *Downloader {
	return &Downloader{store: store, exec: exec, log: log}
}

// Run lists the remote keys under prefix and fetches each into outputDir,
// reproducing the key structure below the prefix. Directory markers are
// skipped. A listing failure is fatal; per-object failures are isolated.
func (d *Downloader) Run(ctx context.Context, prefix, outputDir string) (batch.Result, error) {
	objects, err := d.store.List(ctx, prefix)
	if err != nil {
		return batch.Result{}, err
	}

	tasks := make([]TransferTask, 0, len(objects))
	for _, obj := range objects {
		if isDirectoryMarker(obj.Key) {
			continue
		}
		tasks = append(tasks, TransferTask{
			Source: obj.Key,
			Dest:   filepath.Join(outputDir, filepath.FromSlash(relativeKey(prefix, obj.Key))),
			Bytes:  obj.Size,
		})
	}

	d.log.Info().Str("prefix", prefix).Int("objects", len(tasks)).Msg("downloading remote objects")

	res := batch.Run(ctx, d.exec, tasks,
		func(t TransferTask) string { return t.Source },
		d.fetchOne)

	d.log.Info().Int("succeeded", res.Succeeded).Int("failed", res.Failed).Msg("download finished")
	return res, nil
}

func (d *Downloader) fetchOne(ctx context.Context, task TransferTask) error {
	data, err := d.store.Fetch(ctx, task.Source)
	if err != nil {
		if storage.IsTransient(err) {
			d.log.Warn().Str("key", task.Source).Err(err).Msg("transient fetch failure, run degraded")
		}
		return err
	}

	if err := os.MkdirAll(filepath.Dir(task.Dest), 0o755); err != nil {
		return fmt.Errorf("prepare directory for %s: %w", task.Dest, err)
	}
	if err := os.WriteFile(task.Dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", task.Dest, err)
	}

	d.log.Debug().Str("key", task.Source).Str("path", task.Dest).Int("bytes", len(data)).Msg("downloaded object")
	return nil
}
