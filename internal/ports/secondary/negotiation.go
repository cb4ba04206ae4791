package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

// NegotiationRepository defines the secondary port for negotiation persistence.
// Only agreed negotiations are saved.
type NegotiationRepository interface {
	// Save persists a completed negotiation.
	Save(ctx context.Context, record *NegotiationRecord) error

	// ListRecent returns the most recent negotiations, newest first.
	ListRecent(ctx context.Context, limit int) ([]*NegotiationSummaryRecord, error)

	// GetByID retrieves a negotiation by its ID.
	GetByID(ctx context.Context, id string) (*NegotiationRecord, error)
}

// NegotiationRecord represents a negotiation as stored in persistence.
type NegotiationRecord struct {
	ID         string
	Item       string
	BuyerMax   float64
	SellerMin  float64
	FinalPrice float64
	// Conversation is the plain "Round N - Role: message" transcript.
	Conversation string
	// Transcript is the JSON encoding of the full negotiation, used for replay.
	Transcript string
	Summary    string
	Analysis   string
	CreatedAt  time.Time
}

// NegotiationSummaryRecord is the history row shown in listings.
type NegotiationSummaryRecord struct {
	ID         string
	Item       string
	BuyerMax   float64
	SellerMin  float64
	FinalPrice float64
	CreatedAt  time.Time
}
