package app

import (
	"encoding/json"
	"fmt"
	"time"

	corenegotiation "github.com/example/haggle/internal/core/negotiation"
	"github.com/example/haggle/internal/ports/primary"
	"github.com/example/haggle/internal/ports/secondary"
)

func negotiationToPrimary(n *corenegotiation.Negotiation) *primary.Negotiation {
	rounds := make([]primary.Offer, len(n.Offers))
	for i, o := range n.Offers {
		rounds[i] = primary.Offer{
			Round:   o.Round,
			Agent:   string(o.Role),
			Message: o.Message,
			Price:   copyPrice(o.Price),
		}
	}

	out := &primary.Negotiation{
		ID:          n.ID,
		Item:        n.Item,
		BuyerMax:    n.Ceiling,
		SellerMin:   n.Floor,
		Rounds:      rounds,
		Status:      string(n.Status),
		FinalPrice:  copyPrice(n.FinalPrice),
		Reason:      n.FailureReason,
		NextSpeaker: string(n.NextSpeaker),
		Summary:     n.Summary,
		Analysis:    n.Analysis,
	}
	if !n.CreatedAt.IsZero() {
		created := n.CreatedAt
		out.CreatedAt = &created
	}
	return out
}

// negotiationFromPrimary converts client-supplied data. Round numbers are
// renumbered so the transcript stays contiguous from 1.
func negotiationFromPrimary(p *primary.Negotiation) (*corenegotiation.Negotiation, error) {
	status, ok := corenegotiation.ParseStatus(p.Status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", primary.ErrPrecondition, p.Status)
	}

	n := &corenegotiation.Negotiation{
		ID:            p.ID,
		Item:          p.Item,
		Ceiling:       p.BuyerMax,
		Floor:         p.SellerMin,
		Status:        status,
		FinalPrice:    copyPrice(p.FinalPrice),
		FailureReason: p.Reason,
		Summary:       p.Summary,
		Analysis:      p.Analysis,
	}
	if p.CreatedAt != nil {
		n.CreatedAt = *p.CreatedAt
	}
	if p.NextSpeaker != "" {
		role, ok := corenegotiation.ParseRole(p.NextSpeaker)
		if !ok || !role.IsRegular() {
			return nil, fmt.Errorf("%w: invalid next speaker %q", primary.ErrPrecondition, p.NextSpeaker)
		}
		n.NextSpeaker = role
	}

	for _, r := range p.Rounds {
		role, ok := corenegotiation.ParseRole(r.Agent)
		if !ok {
			return nil, fmt.Errorf("%w: unknown agent %q", primary.ErrPrecondition, r.Agent)
		}
		n.Append(corenegotiation.Offer{Role: role, Message: r.Message, Price: copyPrice(r.Price)})
	}
	return n, nil
}

func negotiationToRecord(n *corenegotiation.Negotiation) (*secondary.NegotiationRecord, error) {
	if n.FinalPrice == nil {
		return nil, fmt.Errorf("negotiation %s has no final price", n.ID)
	}
	transcript, err := json.Marshal(negotiationToPrimary(n))
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}
	return &secondary.NegotiationRecord{
		ID:           n.ID,
		Item:         n.Item,
		BuyerMax:     n.Ceiling,
		SellerMin:    n.Floor,
		FinalPrice:   *n.FinalPrice,
		Conversation: corenegotiation.TranscriptText(n.Offers),
		Transcript:   string(transcript),
		Summary:      n.Summary,
		Analysis:     n.Analysis,
		CreatedAt:    n.CreatedAt,
	}, nil
}

// recordToPrimary restores a stored negotiation. Records without a JSON
// transcript come back with their headline fields only.
func recordToPrimary(r *secondary.NegotiationRecord) (*primary.Negotiation, error) {
	if r.Transcript != "" {
		var out primary.Negotiation
		if err := json.Unmarshal([]byte(r.Transcript), &out); err != nil {
			return nil, fmt.Errorf("failed to decode transcript for %s: %w", r.ID, err)
		}
		out.ID = r.ID
		return &out, nil
	}

	price := r.FinalPrice
	created := r.CreatedAt
	return &primary.Negotiation{
		ID:         r.ID,
		Item:       r.Item,
		BuyerMax:   r.BuyerMax,
		SellerMin:  r.SellerMin,
		Rounds:     []primary.Offer{},
		Status:     string(corenegotiation.StatusAgreed),
		FinalPrice: &price,
		Summary:    r.Summary,
		Analysis:   r.Analysis,
		CreatedAt:  timePtr(created),
	}, nil
}

func summaryRecordToPrimary(r *secondary.NegotiationSummaryRecord) *primary.NegotiationSummary {
	return &primary.NegotiationSummary{
		ID:         r.ID,
		Item:       r.Item,
		BuyerMax:   r.BuyerMax,
		SellerMin:  r.SellerMin,
		FinalPrice: r.FinalPrice,
		CreatedAt:  r.CreatedAt,
	}
}

func copyPrice(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
