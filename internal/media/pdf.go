package media

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// PDFInfo describes a document imported as an image overlay
type PDFInfo struct {
	Path       string  `json:"path"`
	TotalPages int     `json:"totalPages"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// InspectPDF reads the page count and first page size
func InspectPDF(path string) (*PDFInfo, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer doc.Close()

	info := &PDFInfo{Path: path, TotalPages: doc.NumPage()}
	if info.TotalPages > 0 {
		rect, err := doc.Bound(0)
		if err != nil {
			return nil, fmt.Errorf("failed to read page bounds: %w", err)
		}
		info.Width = float64(rect.Dx())
		info.Height = float64(rect.Dy())
	}
	return info, nil
}

// RenderPDFPage rasterizes a 1-based page at the given dpi
func RenderPDFPage(path string, page int, dpi float64) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range 1..%d", page, doc.NumPage())
	}
	return doc.ImageDPI(page-1, dpi)
}
