package negotiation

import (
	"fmt"
	"math"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// StartContext provides the inputs checked before a negotiation is created.
type StartContext struct {
	Item    string
	Ceiling float64
	Floor   float64
}

// CanStart evaluates whether a negotiation may be created.
// Rule: the seller minimum must not exceed the buyer maximum.
func CanStart(ctx StartContext) GuardResult {
	if strings.TrimSpace(ctx.Item) == "" {
		return GuardResult{Allowed: false, Reason: "item description is required"}
	}
	if !validPrice(ctx.Ceiling) || !validPrice(ctx.Floor) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("prices must be finite and non-negative (buyer maximum: %v, seller minimum: %v)", ctx.Ceiling, ctx.Floor),
		}
	}
	if ctx.Floor > ctx.Ceiling {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Negotiation impossible: Seller minimum ($%.2f) exceeds buyer maximum ($%.2f)", ctx.Floor, ctx.Ceiling),
		}
	}
	return GuardResult{Allowed: true}
}

// ContinueContext provides the inputs checked before advancing a negotiation.
type ContinueContext struct {
	NegotiationID string
	Status        Status
}

// CanContinue evaluates whether a negotiation may receive further offers.
// Rule: agreed and failed negotiations are closed.
func CanContinue(ctx ContinueContext) GuardResult {
	if ctx.Status.IsTerminal() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("negotiation %s is already %s", ctx.NegotiationID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}
