// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"
	"errors"
	"time"
)

// ErrPrecondition is returned when a negotiation cannot be started.
var ErrPrecondition = errors.New("negotiation precondition failed")

// ErrNotFound is returned when a stored negotiation does not exist.
var ErrNotFound = errors.New("negotiation not found")

// NegotiationService defines the primary port for negotiation operations.
type NegotiationService interface {
	// StartNegotiation runs a new negotiation to a terminal state.
	StartNegotiation(ctx context.Context, req StartNegotiationRequest) (*Negotiation, error)

	// ContinueNegotiation advances an ongoing negotiation by one step.
	// Terminal negotiations are returned unchanged.
	ContinueNegotiation(ctx context.Context, n *Negotiation) (*Negotiation, error)

	// ListHistory returns the most recent agreed negotiations.
	ListHistory(ctx context.Context, limit int) ([]*NegotiationSummary, error)

	// GetNegotiation reloads a stored negotiation.
	GetNegotiation(ctx context.Context, id string) (*Negotiation, error)
}

// StartNegotiationRequest contains parameters for starting a negotiation.
type StartNegotiationRequest struct {
	Item      string
	BuyerMax  float64
	SellerMin float64
	// Seed fixes the random source when set.
	Seed *int64
}

// Negotiation is the public, serializable form of a negotiation.
type Negotiation struct {
	ID          string     `json:"id"`
	Item        string     `json:"item"`
	BuyerMax    float64    `json:"buyer_max"`
	SellerMin   float64    `json:"seller_min"`
	Rounds      []Offer    `json:"rounds"`
	Status      string     `json:"status"`
	FinalPrice  *float64   `json:"final_price,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	NextSpeaker string     `json:"next_speaker,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Analysis    string     `json:"analysis,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Offer is one round of a negotiation transcript.
type Offer struct {
	Round   int      `json:"round"`
	Agent   string   `json:"agent"`
	Message string   `json:"message"`
	Price   *float64 `json:"price"`
}

// NegotiationSummary is a history entry.
type NegotiationSummary struct {
	ID         string    `json:"id"`
	Item       string    `json:"item"`
	BuyerMax   float64   `json:"buyer_max"`
	SellerMin  float64   `json:"seller_min"`
	FinalPrice float64   `json:"final_price"`
	CreatedAt  time.Time `json:"created_at"`
}
