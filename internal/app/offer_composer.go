package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/haggle/internal/core/compose"
	corenegotiation "github.com/example/haggle/internal/core/negotiation"
	"github.com/example/haggle/internal/ctxutil"
	"github.com/example/haggle/internal/logging"
	"github.com/example/haggle/internal/ports/secondary"
)

// OfferComposer words offers and reports through the text generator.
// Every generation failure degrades to deterministic text and is only logged.
type OfferComposer struct {
	generator secondary.TextGenerator
	timeout   time.Duration
	logger    *logging.Logger
}

// NewOfferComposer creates an OfferComposer. A zero timeout disables the per-call deadline.
func NewOfferComposer(generator secondary.TextGenerator, timeout time.Duration, logger *logging.Logger) *OfferComposer {
	return &OfferComposer{generator: generator, timeout: timeout, logger: logger}
}

// Compose returns the message for req. The price always stays req.Price.
func (c *OfferComposer) Compose(ctx context.Context, req compose.Request) string {
	fallback := compose.Fallback(req)
	if !compose.NeedsGeneration(req) {
		return fallback
	}

	logger := c.logger.
		WithNegotiation(ctxutil.NegotiationFromContext(ctx)).
		With("role", string(req.Role), "kind", string(req.Kind))

	prompt, err := compose.Prompt(req)
	if err != nil {
		logger.Warn("prompt rendering failed, using fallback", "error", err.Error())
		return fallback
	}

	text, err := c.generate(ctx, prompt)
	if err != nil {
		logger.Warn("generation failed, using fallback", "error", err.Error())
		return fallback
	}

	switch p := compose.Parse(text).(type) {
	case compose.Parsed:
		if p.Price != req.Price {
			logger.Debug("discarding generated price", "generated", p.Price, "price", req.Price)
		}
		return p.Message
	case compose.Unparsed:
		logger.Warn("generated text unusable, using fallback", "reason", p.Reason)
	}
	return fallback
}

// Report produces the summary and analysis for a finished negotiation.
// Failures are recorded inline in the returned text.
func (c *OfferComposer) Report(ctx context.Context, n *corenegotiation.Negotiation) (summary, analysis string) {
	logger := c.logger.WithNegotiation(n.ID)

	summary, err := c.freeText(ctx, compose.SummaryPrompt, n)
	if err != nil {
		logger.Warn("summary generation failed", "error", err.Error())
		summary = compose.SummaryFailed(err)
	}

	analysis, err = c.freeText(ctx, compose.AnalysisPrompt, n)
	if err != nil {
		logger.Warn("analysis generation failed", "error", err.Error())
		analysis = compose.AnalysisFailed(err)
	}
	return summary, analysis
}

func (c *OfferComposer) freeText(ctx context.Context, render func(*corenegotiation.Negotiation) (string, error), n *corenegotiation.Negotiation) (string, error) {
	prompt, err := render(n)
	if err != nil {
		return "", err
	}
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}

func (c *OfferComposer) generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("text generation: %w", err)
	}
	return text, nil
}
