// Package offline provides a TextGenerator that never reaches a model, so
// every message falls back to its deterministic template.
package offline

import (
	"context"
	"errors"

	"github.com/example/haggle/internal/ports/secondary"
)

// ErrOffline is returned by every Generate call.
var ErrOffline = errors.New("text generation disabled (offline provider)")

// Generator implements secondary.TextGenerator without any backend.
type Generator struct{}

// NewGenerator creates an offline generator.
func NewGenerator() *Generator { return &Generator{} }

// Generate always fails with ErrOffline.
func (Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrOffline
}

var _ secondary.TextGenerator = (*Generator)(nil)
