// Package markdown emits one front-matter record per source document for the
// static-site content system.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/cmdiy/archive-pipeline/internal/batch"
	"github.com/cmdiy/archive-pipeline/internal/fswalk"
	"github.com/cmdiy/archive-pipeline/internal/meta"
)

// frontMatter is the fixed record schema. Field order here is the emitted key
// order; the content system depends on it.
type frontMatter struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Code        string `yaml:"code"`
	Image       string `yaml:"image"`
	Download    string `yaml:"download"`
}

// Generator writes `{slug}.md` records derived from PDF filenames.
type Generator struct {
	prefix    string
	baseURL   string
	outputDir string
	exec      *batch.Executor
	log       zerolog.Logger
}

func NewGenerator(prefix, baseURL, outputDir string, exec *batch.Executor, log zerolog.Logger) *Generator {
	return &Generator{
		prefix:    prefix,
		baseURL:   baseURL,
		outputDir: outputDir,
		exec:      exec,
		log:       log,
	}
}

// Run derives metadata for every PDF under sourceDir and writes one markdown
// record per document into the output directory, creating it if absent.
func (g *Generator) Run(ctx context.Context, sourceDir string) (batch.Result, error) {
	entries, err := fswalk.Walk(sourceDir, []string{".pdf"})
	if err != nil {
		return batch.Result{}, err
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return batch.Result{}, fmt.Errorf("create output dir %s: %w", g.outputDir, err)
	}

	g.log.Info().Str("source", sourceDir).Int("files", len(entries)).Msg("generating markdown records")

	res := batch.Run(ctx, g.exec, entries,
		func(e fswalk.Entry) string { return e.Rel },
		g.writeRecord)

	g.log.Info().Int("succeeded", res.Succeeded).Int("failed", res.Failed).Msg("markdown generation finished")
	return res, nil
}

func (g *Generator) writeRecord(ctx context.Context, entry fswalk.Entry) error {
	filename := filepath.Base(entry.Path)
	md, err := meta.Derive(filename, g.prefix, g.baseURL)
	if err != nil {
		return err
	}

	record, err := render(md)
	if err != nil {
		return err
	}

	outPath := filepath.Join(g.outputDir, md.Slug+".md")
	if err := os.WriteFile(outPath, record, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	g.log.Debug().Str("file", filename).Str("record", outPath).Msg("wrote markdown record")
	return nil
}

// render serializes the record: YAML front matter between --- fences, with an
// empty description placeholder for editors to fill in and the slug doubling
// as the stable product code.
func render(md meta.DocumentMetadata) ([]byte, error) {
	fm := frontMatter{
		Title:    md.Title,
		Slug:     md.Slug,
		Code:     md.Slug,
		Image:    md.ImageURL,
		Download: md.DownloadURL,
	}

	body, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter for %s: %w", md.Slug, err)
	}

	record := make([]byte, 0, len(body)+8)
	record = append(record, "---\n"...)
	record = append(record, body...)
	record = append(record, "---\n"...)
	return record, nil
}
