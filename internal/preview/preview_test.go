package preview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdiy/archive-pipeline/internal/batch"
)

func solidPage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func newTestRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	exec := batch.New(batch.Config{ContinueOnError: true}, zerolog.Nop())
	r := NewRenderer(opts, exec, zerolog.Nop())
	r.renderPage = func(path string, dpi float64) (image.Image, error) {
		if strings.Contains(path, "broken") {
			return nil, errors.New("cannot parse pdf")
		}
		return solidPage(200, 300), nil
	}
	return r
}

func writePDF(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF"), 0o644))
}

func TestRunWritesPreviews(t *testing.T) {
	source := t.TempDir()
	output := t.TempDir()
	writePDF(t, source, "ADK1152.pdf")

	r := newTestRenderer(t, Options{Format: "jpeg", Width: 100, PreserveAspectRatio: true})
	res, err := r.Run(context.Background(), source, output)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)

	img, err := imaging.Open(filepath.Join(output, "ADK1152.jpeg"))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 100, bounds.Dx())
	// 200x300 page scaled to width 100 keeps the 2:3 aspect ratio.
	assert.Equal(t, 150, bounds.Dy())
}

func TestRunContinuesPastFailures(t *testing.T) {
	source := t.TempDir()
	output := t.TempDir()
	writePDF(t, source, "a.pdf")
	writePDF(t, source, "broken.pdf")
	writePDF(t, source, "c.pdf")

	r := newTestRenderer(t, Options{Format: "jpeg", Width: 50})
	res, err := r.Run(context.Background(), source, output)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "broken.pdf", res.Failures[0].Item)

	_, err = os.Stat(filepath.Join(output, "a.jpeg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(output, "c.jpeg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(output, "broken.jpeg"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunPNGFormat(t *testing.T) {
	source := t.TempDir()
	output := t.TempDir()
	writePDF(t, source, "manual.pdf")

	r := newTestRenderer(t, Options{Format: "png"})
	res, err := r.Run(context.Background(), source, output)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)

	_, err = os.Stat(filepath.Join(output, "manual.png"))
	assert.NoError(t, err)
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	r := newTestRenderer(t, Options{Format: "tiff2000"})
	_, err := r.Run(context.Background(), t.TempDir(), t.TempDir())
	assert.Error(t, err)
}

func TestScaleExactWhenAspectNotPreserved(t *testing.T) {
	r := newTestRenderer(t, Options{Format: "jpeg", Width: 100, Height: 100, PreserveAspectRatio: false})
	out := r.scale(solidPage(200, 300))
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 100, out.Bounds().Dy())
}

func TestScaleFitWhenBothDimensionsSet(t *testing.T) {
	r := newTestRenderer(t, Options{Format: "jpeg", Width: 100, Height: 100, PreserveAspectRatio: true})
	out := r.scale(solidPage(200, 300))
	// Fits inside 100x100 without stretching.
	assert.Equal(t, 100, out.Bounds().Dy())
	assert.InDelta(t, 67, out.Bounds().Dx(), 1)
}

func TestScaleNoopWithoutDimensions(t *testing.T) {
	r := newTestRenderer(t, Options{Format: "jpeg"})
	out := r.scale(solidPage(200, 300))
	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, 300, out.Bounds().Dy())
}
