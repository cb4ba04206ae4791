package httpapi_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/example/haggle/internal/ports/primary"
)

// MockNegotiationService
type MockNegotiationService struct {
	mock.Mock
}

func (m *MockNegotiationService) StartNegotiation(ctx context.Context, req primary.StartNegotiationRequest) (*primary.Negotiation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*primary.Negotiation), args.Error(1)
}

func (m *MockNegotiationService) ContinueNegotiation(ctx context.Context, n *primary.Negotiation) (*primary.Negotiation, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*primary.Negotiation), args.Error(1)
}

func (m *MockNegotiationService) ListHistory(ctx context.Context, limit int) ([]*primary.NegotiationSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*primary.NegotiationSummary), args.Error(1)
}

func (m *MockNegotiationService) GetNegotiation(ctx context.Context, id string) (*primary.Negotiation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*primary.Negotiation), args.Error(1)
}
