package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/haggle/internal/core/negotiation"
	"github.com/example/haggle/internal/core/pricing"
	"github.com/example/haggle/internal/logging"
	"github.com/example/haggle/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.TextGenerator         = (*mockTextGenerator)(nil)
	_ secondary.NegotiationRepository = (*mockNegotiationRepository)(nil)
)

var errGenerationDown = errors.New("generation unavailable")

// mockTextGenerator implements secondary.TextGenerator for testing.
type mockTextGenerator struct {
	mu      sync.Mutex
	respond func(ctx context.Context, prompt string) (string, error)
	prompts []string
}

// newFailingGenerator returns a generator whose every call fails.
func newFailingGenerator() *mockTextGenerator {
	return &mockTextGenerator{respond: func(context.Context, string) (string, error) {
		return "", errGenerationDown
	}}
}

// newCannedGenerator returns a generator that always replies with text.
func newCannedGenerator(text string) *mockTextGenerator {
	return &mockTextGenerator{respond: func(context.Context, string) (string, error) {
		return text, nil
	}}
}

func (m *mockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.respond(ctx, prompt)
}

func (m *mockTextGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockNegotiationRepository implements secondary.NegotiationRepository for testing.
type mockNegotiationRepository struct {
	records   map[string]*secondary.NegotiationRecord
	saved     []*secondary.NegotiationRecord
	lastLimit int
	saveErr   error
	listErr   error
	getErr    error
}

func newMockNegotiationRepository() *mockNegotiationRepository {
	return &mockNegotiationRepository{records: make(map[string]*secondary.NegotiationRecord)}
}

func (m *mockNegotiationRepository) Save(ctx context.Context, record *secondary.NegotiationRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[record.ID] = record
	m.saved = append(m.saved, record)
	return nil
}

func (m *mockNegotiationRepository) ListRecent(ctx context.Context, limit int) ([]*secondary.NegotiationSummaryRecord, error) {
	m.lastLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.NegotiationSummaryRecord
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		r := m.saved[i]
		out = append(out, &secondary.NegotiationSummaryRecord{
			ID:         r.ID,
			Item:       r.Item,
			BuyerMax:   r.BuyerMax,
			SellerMin:  r.SellerMin,
			FinalPrice: r.FinalPrice,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out, nil
}

func (m *mockNegotiationRepository) GetByID(ctx context.Context, id string) (*secondary.NegotiationRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, secondary.ErrNotFound
}

// fixedSource always returns the same draw, making every price deterministic.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// newTestService wires a service with a mid-range fixed random source and a
// fixed clock.
func newTestService(gen secondary.TextGenerator, repo secondary.NegotiationRepository) *NegotiationServiceImpl {
	logger := logging.NopLogger()
	svc := NewNegotiationService(
		repo,
		NewOfferComposer(gen, time.Second, logger),
		NewEffectExecutor(repo, logger),
		logger,
		NegotiationServiceConfig{Rules: negotiation.DefaultRules()},
	)
	svc.newSource = func(*int64) pricing.Source { return fixedSource(0.5) }
	svc.now = func() time.Time { return testNow }
	return svc
}
