package core

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedFormat indicates the converter cannot handle the MIME type.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailed indicates the converter accepted the document but
	// could not produce text from it.
	ErrExtractionFailed = errors.New("document text extraction failed")
)

// DocumentExtractor converts raw document bytes (word-processing,
// spreadsheet, presentation, PDF, plain text) into plain text suitable
// for AI grounding. Implementations are opaque: bytes + MIME type in,
// text or an explicit failure out.
type DocumentExtractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
}
