// Package meta derives the identifier set for a source document: slug, display
// title, remote URLs and object keys. Derivation is deterministic — the same
// filename always yields the same identifiers.
package meta

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidFilename is returned when sanitization collapses a filename to an
// empty slug.
var ErrInvalidFilename = errors.New("filename yields empty slug after sanitization")

// DocumentMetadata is the identifier set derived from one source filename.
type DocumentMetadata struct {
	Slug        string
	Title       string
	ImageURL    string
	DownloadURL string
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^A-Za-z0-9-]`)
)

// trackedExtensions maps every accepted extension to its remote subfolder.
var trackedExtensions = map[string]string{
	".pdf":  "documents",
	".jpg":  "images",
	".jpeg": "images",
	".png":  "images",
	".gif":  "images",
	".webp": "images",
}

// contentTypes is the fixed extension → Content-Type mapping used for uploads.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Derive maps a raw filename plus a namespace prefix and base URL to its
// DocumentMetadata.
//
// The remote URLs substitute spaces with "+" and nothing else. That is a
// legacy convention carried over from already-published links, not an attempt
// at percent-encoding; other URL-unsafe characters pass through verbatim.
func Derive(filename, prefix, baseURL string) (DocumentMetadata, error) {
	name := strings.TrimSpace(stripExtension(filename))

	slug := nonSlugChars.ReplaceAllString(whitespaceRun.ReplaceAllString(name, "-"), "")
	if slug == "" {
		return DocumentMetadata{}, fmt.Errorf("derive %q: %w", filename, ErrInvalidFilename)
	}

	base := strings.TrimSuffix(baseURL, "/")
	return DocumentMetadata{
		Slug:        slug,
		Title:       name,
		ImageURL:    fmt.Sprintf("%s/%s/images/%s.jpeg", base, prefix, plusEncode(name)),
		DownloadURL: fmt.Sprintf("%s/%s/documents/%s", base, prefix, plusEncode(filename)),
	}, nil
}

// ObjectKey maps a local filename to its remote key under a category. PDFs go
// to documents/, every other tracked extension to images/. The original
// filename is preserved verbatim in the key.
func ObjectKey(category, filename string) string {
	subfolder := "images"
	if ext := strings.ToLower(filepath.Ext(filename)); trackedExtensions[ext] == "documents" {
		subfolder = "documents"
	}
	return fmt.Sprintf("%s/%s/%s", category, subfolder, filename)
}

// ContentType returns the Content-Type for a file extension, falling back to
// application/octet-stream for anything outside the fixed mapping.
func ContentType(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Tracked reports whether an extension belongs to the accepted set.
func Tracked(ext string) bool {
	_, ok := trackedExtensions[strings.ToLower(ext)]
	return ok
}

// TrackedExtensions returns the accepted extension set, lowercased, with
// leading dots.
func TrackedExtensions() []string {
	exts := make([]string, 0, len(trackedExtensions))
	for ext := range trackedExtensions {
		exts = append(exts, ext)
	}
	return exts
}

func stripExtension(filename string) string {
	if ext := filepath.Ext(filename); ext != "" {
		return strings.TrimSuffix(filename, ext)
	}
	return filename
}

func plusEncode(s string) string {
	return strings.ReplaceAll(s, " ", "+")
}
