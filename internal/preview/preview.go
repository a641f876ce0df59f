// Package preview renders page one of each PDF source into a raster preview
// image.
package preview

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	"github.com/cmdiy/archive-pipeline/internal/batch"
	"github.com/cmdiy/archive-pipeline/internal/fswalk"
)

// Options control rasterization and scaling of the rendered page.
type Options struct {
	// Format is the target raster format by extension name (jpeg, png, gif).
	Format string
	// Width and Height bound the output image. A zero dimension is computed
	// from the other to preserve the page's aspect ratio.
	Width  int
	Height int
	// PreserveAspectRatio fits the page inside Width x Height instead of
	// stretching to it when both dimensions are set.
	PreserveAspectRatio bool
	// Density is the rasterization DPI for the PDF page.
	Density float64
}

// Renderer converts PDFs to preview images, continuing past per-file
// failures. The page rasterizer is a function field so tests can substitute a
// synthetic image source.
type Renderer struct {
	opts Options
	exec *batch.Executor
	log  zerolog.Logger

	renderPage func(path string, dpi float64) (image.Image, error)
}

func NewRenderer(opts Options, exec *batch.Executor, log zerolog.Logger) *Renderer {
	if opts.Density <= 0 {
		opts.Density = 150
	}
	return &Renderer{
		opts:       opts,
		exec:       exec,
		log:        log,
		renderPage: renderFirstPage,
	}
}

// Run renders every PDF under sourceDir into outputDir. Output files carry the
// source's base name with the extension swapped to the target format.
func (r *Renderer) Run(ctx context.Context, sourceDir, outputDir string) (batch.Result, error) {
	if _, err := imaging.FormatFromExtension(r.opts.Format); err != nil {
		return batch.Result{}, fmt.Errorf("image format %q: %w", r.opts.Format, err)
	}

	entries, err := fswalk.Walk(sourceDir, []string{".pdf"})
	if err != nil {
		return batch.Result{}, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return batch.Result{}, fmt.Errorf("create output dir %s: %w", outputDir, err)
	}

	r.log.Info().Str("source", sourceDir).Int("files", len(entries)).Msg("generating previews")

	res := batch.Run(ctx, r.exec, entries,
		func(e fswalk.Entry) string { return e.Rel },
		func(ctx context.Context, e fswalk.Entry) error {
			return r.renderOne(e, outputDir)
		})

	r.log.Info().Int("succeeded", res.Succeeded).Int("failed", res.Failed).Msg("preview generation finished")
	return res, nil
}

func (r *Renderer) renderOne(entry fswalk.Entry, outputDir string) error {
	img, err := r.renderPage(entry.Path, r.opts.Density)
	if err != nil {
		return fmt.Errorf("render %s: %w", entry.Path, err)
	}

	img = r.scale(img)

	base := strings.TrimSuffix(filepath.Base(entry.Path), filepath.Ext(entry.Path))
	outPath := filepath.Join(outputDir, base+"."+r.opts.Format)
	if err := imaging.Save(img, outPath); err != nil {
		return fmt.Errorf("save %s: %w", outPath, err)
	}

	r.log.Debug().Str("pdf", entry.Rel).Str("preview", outPath).Msg("wrote preview")
	return nil
}

func (r *Renderer) scale(img image.Image) image.Image {
	w, h := r.opts.Width, r.opts.Height
	if w <= 0 && h <= 0 {
		return img
	}
	if r.opts.PreserveAspectRatio && w > 0 && h > 0 {
		return imaging.Fit(img, w, h, imaging.Lanczos)
	}
	// A zero dimension is derived from the aspect ratio.
	return imaging.Resize(img, max(w, 0), max(h, 0), imaging.Lanczos)
}

// renderFirstPage rasterizes page one of the PDF at the given DPI via MuPDF.
func renderFirstPage(path string, dpi float64) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return doc.ImageDPI(0, dpi)
}
