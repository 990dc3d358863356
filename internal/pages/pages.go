// Package pages supplies page images and the run manifest. PDF rasterization
// happens upstream (pdftoppm or similar); this package reads the rendered
// page images from disk and encodes them for the vision API.
package pages

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Image is one rendered page ready to send to the vision API.
type Image struct {
	MediaType string
	Data      string // base64-encoded bytes
}

// Provider loads the ordered page images for a document.
type Provider interface {
	Pages(docID string) ([]Image, error)
}

// DirProvider reads pages from Root/<docID>/, one image file per page,
// ordered by filename. Rendering tools emit zero-padded page numbers, so
// lexical order is page order.
type DirProvider struct {
	Root string
}

var mediaTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Pages returns the document's page images in page order.
func (p *DirProvider) Pages(docID string) ([]Image, error) {
	dir := filepath.Join(p.Root, docID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "pages: read document dir %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := mediaTypes[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	images := make([]Image, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, eris.Wrapf(err, "pages: read page %s", name)
		}
		images = append(images, Image{
			MediaType: mediaTypes[strings.ToLower(filepath.Ext(name))],
			Data:      base64.StdEncoding.EncodeToString(raw),
		})
	}
	return images, nil
}

// Slice returns the pages covering the 1-based inclusive range [start, end].
func Slice(images []Image, start, end int) []Image {
	if start < 1 {
		start = 1
	}
	if end > len(images) {
		end = len(images)
	}
	if start > end {
		return nil
	}
	return images[start-1 : end]
}
