package secondary

import "context"

// TextGenerator defines the secondary port for natural-language generation.
// Implementations may fail or return text with no usable payload; callers
// degrade to deterministic fallbacks in both cases.
type TextGenerator interface {
	// Generate returns the model's reply to prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
