package gemini

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/example/haggle/internal/ports/secondary"
)

// LimitedGenerator throttles calls to another generator with a token bucket
// shared by every negotiation in the process.
type LimitedGenerator struct {
	next    secondary.TextGenerator
	limiter *rate.Limiter
}

// NewLimitedGenerator wraps next with a limit of perMinute calls and the
// given burst. perMinute <= 0 disables limiting.
func NewLimitedGenerator(next secondary.TextGenerator, perMinute, burst int) *LimitedGenerator {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst < 1 {
		burst = 1
	}
	return &LimitedGenerator{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// Generate waits for a token, honouring ctx, then delegates.
func (l *LimitedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return l.next.Generate(ctx, prompt)
}

var _ secondary.TextGenerator = (*LimitedGenerator)(nil)
