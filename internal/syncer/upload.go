package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cmdiy/archive-pipeline/internal/batch"
	"github.com/cmdiy/archive-pipeline/internal/fswalk"
	"github.com/cmdiy/archive-pipeline/internal/meta"
	"github.com/cmdiy/archive-pipeline/internal/storage"
)

// Uploader walks a local tree and stores every tracked file under the
// category's remote key layout ({category}/{documents|images}/{filename}).
type Uploader struct {
	store    storage.ObjectStorage
	category string
	exec     *batch.Executor
	log      zerolog.Logger
}

func NewUploader(store storage.ObjectStorage, category string, exec *batch.Executor, log zerolog.Logger) *Uploader {
	return &Uploader{store: store, category: category, exec: exec, log: log}
}

// Run uploads every tracked file under sourceDir. Dry-run behavior lives in
// the store's Put, so this code path is identical either way.
func (u *Uploader) Run(ctx context.Context, sourceDir string) (batch.Result, error) {
	entries, err := fswalk.Walk(sourceDir, meta.TrackedExtensions())
	if err != nil {
		return batch.Result{}, err
	}

	tasks := make([]TransferTask, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, TransferTask{
			Source: e.Path,
			Dest:   meta.ObjectKey(u.category, filepath.Base(e.Path)),
		})
	}

	u.log.Info().Str("source", sourceDir).Int("files", len(tasks)).Msg("uploading local files")

	res := batch.Run(ctx, u.exec, tasks,
		func(t TransferTask) string { return t.Dest },
		u.putOne)

	u.log.Info().Int("succeeded", res.Succeeded).Int("failed", res.Failed).Msg("upload finished")
	return res, nil
}

func (u *Uploader) putOne(ctx context.Context, task TransferTask) error {
	data, err := os.ReadFile(task.Source)
	if err != nil {
		return fmt.Errorf("read %s: %w", task.Source, err)
	}
	task.Bytes = int64(len(data))

	contentType := meta.ContentType(filepath.Ext(task.Source))
	if err := u.store.Put(ctx, task.Dest, data, contentType); err != nil {
		if storage.IsTransient(err) {
			u.log.Warn().Str("key", task.Dest).Err(err).Msg("transient put failure, run degraded")
		}
		return err
	}

	u.log.Debug().Str("file", task.Source).Str("key", task.Dest).Int64("bytes", task.Bytes).Msg("stored object")
	return nil
}
