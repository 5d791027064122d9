package core

import (
	"context"

	"github.com/pkg/errors"
)

// ErrGenerationFailed is the single error surfaced to callers when the
// text-generation service rejects or fails a call. No retry is performed.
var ErrGenerationFailed = errors.New("generation failed")

// Schema describes the expected JSON shape of a structured generation
// response, in the generation service's own schema dialect.
type Schema map[string]interface{}

// TextGenerator is an external AI text-generation service.
type TextGenerator interface {
	// GenerateText returns the service's free-text reply to prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateJSON constrains the reply to schema and unmarshals it into out.
	GenerateJSON(ctx context.Context, prompt string, schema Schema, out interface{}) error

	// DescribeImage sends an inline image part along with prompt and returns
	// the free-text reply.
	DescribeImage(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
}
