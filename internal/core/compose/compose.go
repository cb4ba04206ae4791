// Package compose turns strategy decisions into messages. It builds the prompt
// for the text generator, parses what comes back, and supplies deterministic
// fallback text when generation is unusable.
package compose

import (
	"fmt"

	"github.com/example/haggle/internal/core/negotiation"
	"github.com/example/haggle/internal/core/pricing"
	"github.com/example/haggle/internal/templates"
)

// Request carries everything needed to word one offer.
type Request struct {
	Role negotiation.Role
	Kind pricing.Kind
	Item string
	// Price is the price the message must carry. It always comes from the
	// strategy or the mediator, never from generated text.
	Price float64
	// Limit is the speaker's own bound: ceiling for the buyer, floor for the seller.
	Limit float64
	// Incoming and IncomingMessage describe the counterpart offer being answered.
	Incoming        float64
	IncomingMessage string
	Turn            int

	// Mediator context.
	Previous float64
	Latest   float64
	Gap      float64
	First    float64
	Context  []string
}

// ForDecision builds a request for a buyer or seller decision.
func ForDecision(role negotiation.Role, item string, limit float64, d pricing.Decision, incomingMessage string) Request {
	return Request{
		Role:            role,
		Kind:            d.Kind,
		Item:            item,
		Price:           d.Price,
		Limit:           limit,
		Incoming:        d.Incoming,
		IncomingMessage: incomingMessage,
		Turn:            d.Turn,
	}
}

// templateName returns the prompt template for a request. Refusals are never
// generated.
func templateName(req Request) (string, bool) {
	switch req.Role {
	case negotiation.RoleMediator:
		return templates.Mediator, true
	case negotiation.RoleBuyer:
		switch req.Kind {
		case pricing.KindOpening:
			return templates.BuyerOpening, true
		case pricing.KindAccept:
			return templates.BuyerAccept, true
		case pricing.KindCounter:
			return templates.BuyerCounter, true
		}
	case negotiation.RoleSeller:
		switch req.Kind {
		case pricing.KindAccept:
			return templates.SellerAccept, true
		case pricing.KindCounter:
			return templates.SellerCounter, true
		}
	}
	return "", false
}

// NeedsGeneration reports whether the request should be sent to the generator.
func NeedsGeneration(req Request) bool {
	_, ok := templateName(req)
	return ok
}

// Prompt renders the generation prompt for req.
func Prompt(req Request) (string, error) {
	name, ok := templateName(req)
	if !ok {
		return "", fmt.Errorf("no prompt for %s %s", req.Role, req.Kind)
	}
	return templates.Render(name, req)
}

// Fallback returns the deterministic message used when generation fails.
func Fallback(req Request) string {
	switch req.Role {
	case negotiation.RoleMediator:
		return fmt.Sprintf("I've been following your negotiation. You've made good progress - the buyer started at $%.2f and the seller came down from their initial position. Perhaps we can find middle ground around $%.2f? You're very close to a deal.",
			req.First, req.Price)
	case negotiation.RoleBuyer:
		switch req.Kind {
		case pricing.KindOpening:
			return fmt.Sprintf("Hello! I'm interested in your %s. Based on my research and similar items I've seen in the area, would you consider $%.2f as a starting point?",
				req.Item, req.Price)
		case pricing.KindAccept:
			return fmt.Sprintf("$%.2f works for me! I'm happy to proceed today. Shall we move forward with the paperwork?", req.Price)
		case pricing.KindRefuse:
			return fmt.Sprintf("I appreciate your time, but $%.2f exceeds my maximum budget of $%.2f. I'll have to look elsewhere unless you can work within my budget.",
				req.Incoming, req.Limit)
		default:
			return fmt.Sprintf("I appreciate the information. While I understand the value, $%.2f is above my budget. Could we meet at $%.2f? This reflects similar items I've seen in the area.",
				req.Incoming, req.Price)
		}
	case negotiation.RoleSeller:
		switch req.Kind {
		case pricing.KindAccept:
			return fmt.Sprintf("I accept your offer of $%.2f for the %s. It's a deal! Let's proceed with the paperwork.", req.Price, req.Item)
		case pricing.KindRefuse:
			return fmt.Sprintf("I understand you're working within a budget, but $%.2f is below my minimum of $%.2f. I'm afraid I can't go any lower than that.",
				req.Incoming, req.Limit)
		default:
			reason := "quality and market value"
			if req.Turn == 1 {
				reason = "excellent condition and low mileage"
			}
			return fmt.Sprintf("Thank you for your interest. $%.2f is quite low for this %s given its %s. The lowest I could go would be $%.2f.",
				req.Incoming, req.Item, reason, req.Price)
		}
	}
	return fmt.Sprintf("$%.2f", req.Price)
}
