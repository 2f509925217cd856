package scan

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/faisalr/propdesk/internal/application/service"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// Reader validates uploaded cheque scans and renders a JPEG thumbnail of
// the first page. PDF rendering goes through mupdf; plain images are
// decoded directly.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new scan reader
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// Inspect validates the uploaded scan and returns its page count plus a
// first-page JPEG thumbnail
func (r *Reader) Inspect(filename string, content []byte) (int, []byte, error) {
	if len(content) == 0 {
		return 0, nil, fmt.Errorf("scan content is empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return r.inspectPDF(content)
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(bytes.NewReader(content))
		if err != nil {
			return 0, nil, fmt.Errorf("failed to decode JPEG scan: %w", err)
		}
		thumbnail, err := encodeJPEG(img)
		if err != nil {
			return 0, nil, err
		}
		return 1, thumbnail, nil
	case ".png":
		img, err := png.Decode(bytes.NewReader(content))
		if err != nil {
			return 0, nil, fmt.Errorf("failed to decode PNG scan: %w", err)
		}
		thumbnail, err := encodeJPEG(img)
		if err != nil {
			return 0, nil, err
		}
		return 1, thumbnail, nil
	default:
		return 0, nil, fmt.Errorf("unsupported scan format: %s", ext)
	}
}

func (r *Reader) inspectPDF(content []byte) (int, []byte, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to open PDF scan: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return 0, nil, fmt.Errorf("PDF scan has no pages")
	}

	img, err := doc.Image(0)
	if err != nil {
		r.logger.Warn("Failed to render PDF first page", zap.Error(err))
		return 0, nil, fmt.Errorf("failed to render PDF first page: %w", err)
	}

	thumbnail, err := encodeJPEG(img)
	if err != nil {
		return 0, nil, err
	}
	return pages, thumbnail, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// Verify interface compliance
var _ service.ScanInspector = (*Reader)(nil)
