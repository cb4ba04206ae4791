package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	corenegotiation "github.com/example/haggle/internal/core/negotiation"
	"github.com/example/haggle/internal/core/pricing"
	"github.com/example/haggle/internal/ctxutil"
	"github.com/example/haggle/internal/logging"
	"github.com/example/haggle/internal/ports/primary"
	"github.com/example/haggle/internal/ports/secondary"
)

// DefaultHistoryLimit is the number of history entries returned when the caller
// does not ask for a specific count.
const DefaultHistoryLimit = 10

// SourceFactory returns the random source for one negotiation. A nil seed
// means an unseeded source.
type SourceFactory func(seed *int64) pricing.Source

// NegotiationServiceConfig holds the tunables for NegotiationServiceImpl.
type NegotiationServiceConfig struct {
	Rules        corenegotiation.Rules
	HistoryLimit int
}

// NegotiationServiceImpl implements the NegotiationService interface.
type NegotiationServiceImpl struct {
	negotiationRepo secondary.NegotiationRepository
	composer        *OfferComposer
	executor        EffectExecutor
	logger          *logging.Logger
	rules           corenegotiation.Rules
	historyLimit    int
	newSource       SourceFactory
	now             func() time.Time
}

// NewNegotiationService creates a new NegotiationService with injected dependencies.
func NewNegotiationService(
	negotiationRepo secondary.NegotiationRepository,
	composer *OfferComposer,
	executor EffectExecutor,
	logger *logging.Logger,
	cfg NegotiationServiceConfig,
) *NegotiationServiceImpl {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	return &NegotiationServiceImpl{
		negotiationRepo: negotiationRepo,
		composer:        composer,
		executor:        executor,
		logger:          logger,
		rules:           cfg.Rules,
		historyLimit:    cfg.HistoryLimit,
		newSource:       defaultSource,
		now:             time.Now,
	}
}

func defaultSource(seed *int64) pricing.Source {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// StartNegotiation validates the price range and runs a new negotiation to completion.
func (s *NegotiationServiceImpl) StartNegotiation(ctx context.Context, req primary.StartNegotiationRequest) (*primary.Negotiation, error) {
	// 1. Check guard
	guard := corenegotiation.CanStart(corenegotiation.StartContext{
		Item:    req.Item,
		Ceiling: req.BuyerMax,
		Floor:   req.SellerMin,
	})
	if !guard.Allowed {
		return nil, fmt.Errorf("%w: %s", primary.ErrPrecondition, guard.Reason)
	}

	// 2. Create the negotiation with a time-ordered ID
	now := s.now()
	n := &corenegotiation.Negotiation{
		ID:        corenegotiation.GenerateNegotiationID(now, ulid.DefaultEntropy()),
		Item:      req.Item,
		Ceiling:   req.BuyerMax,
		Floor:     req.SellerMin,
		Status:    corenegotiation.InitialStatus(),
		CreatedAt: now.UTC(),
	}
	ctx = ctxutil.WithNegotiationID(ctx, n.ID)
	logger := s.loggerFor(ctx, n.ID)
	logger.Info("negotiation started", "item", n.Item, "buyer_max", n.Ceiling, "seller_min", n.Floor)

	// 3. Run every turn from the buyer opening, then report and persist
	sess := newSession(n, s.newSource(req.Seed), s.rules, s.composer, logger)
	sess.run(ctx)
	s.complete(ctx, n, logger)

	return negotiationToPrimary(n), nil
}

// ContinueNegotiation advances an ongoing negotiation by one step.
// Agreed and failed negotiations are returned unchanged.
func (s *NegotiationServiceImpl) ContinueNegotiation(ctx context.Context, in *primary.Negotiation) (*primary.Negotiation, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: negotiation is required", primary.ErrPrecondition)
	}
	n, err := negotiationFromPrimary(in)
	if err != nil {
		return nil, err
	}

	if guard := corenegotiation.CanContinue(corenegotiation.ContinueContext{NegotiationID: n.ID, Status: n.Status}); !guard.Allowed {
		s.loggerFor(ctx, n.ID).Debug("continue ignored", "reason", guard.Reason)
		return in, nil
	}

	guard := corenegotiation.CanStart(corenegotiation.StartContext{Item: n.Item, Ceiling: n.Ceiling, Floor: n.Floor})
	if !guard.Allowed {
		return nil, fmt.Errorf("%w: %s", primary.ErrPrecondition, guard.Reason)
	}

	now := s.now()
	if n.ID == "" {
		n.ID = corenegotiation.GenerateNegotiationID(now, ulid.DefaultEntropy())
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now.UTC()
	}
	ctx = ctxutil.WithNegotiationID(ctx, n.ID)
	logger := s.loggerFor(ctx, n.ID)

	sess := newSession(n, s.newSource(nil), s.rules, s.composer, logger)
	sess.step(ctx)
	if n.Status.IsTerminal() {
		s.complete(ctx, n, logger)
	}

	return negotiationToPrimary(n), nil
}

// loggerFor scopes the service logger to a negotiation and, when the call
// came through the HTTP API, to its request.
func (s *NegotiationServiceImpl) loggerFor(ctx context.Context, negotiationID string) *logging.Logger {
	logger := s.logger.WithNegotiation(negotiationID)
	if requestID := ctxutil.RequestFromContext(ctx); requestID != "" {
		logger = logger.With("request_id", requestID)
	}
	return logger
}

// complete attaches the reports and runs the completion plan. Persistence
// failures are logged and never surface to the caller.
func (s *NegotiationServiceImpl) complete(ctx context.Context, n *corenegotiation.Negotiation, logger *logging.Logger) {
	n.Summary, n.Analysis = s.composer.Report(ctx, n)

	plan := corenegotiation.GenerateCompletionPlan(n)
	if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
		logger.Error("completion effects failed", "error", err.Error())
	}
}

// ListHistory returns the most recent agreed negotiations, newest first.
func (s *NegotiationServiceImpl) ListHistory(ctx context.Context, limit int) ([]*primary.NegotiationSummary, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}
	records, err := s.negotiationRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list negotiations: %w", err)
	}

	out := make([]*primary.NegotiationSummary, len(records))
	for i, r := range records {
		out[i] = summaryRecordToPrimary(r)
	}
	return out, nil
}

// GetNegotiation reloads a stored negotiation with its full transcript.
func (s *NegotiationServiceImpl) GetNegotiation(ctx context.Context, id string) (*primary.Negotiation, error) {
	record, err := s.negotiationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", primary.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get negotiation: %w", err)
	}
	return recordToPrimary(record)
}

var _ primary.NegotiationService = (*NegotiationServiceImpl)(nil)
