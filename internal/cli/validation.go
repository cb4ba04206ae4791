package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/example/haggle/internal/core/negotiation"
)

// validateNegotiationID checks that an ID has the NEG-<ULID> format.
// Returns an error with a helpful message for common mistakes.
func validateNegotiationID(id string) error {
	if negotiation.IsValidNegotiationID(id) {
		return nil
	}

	// Check if it's using wrong case
	if upper := strings.ToUpper(id); negotiation.IsValidNegotiationID(upper) {
		return fmt.Errorf("invalid negotiation ID '%s'. IDs are case-sensitive, use: %s", id, upper)
	}

	// Check if the prefix was left off
	if matched, _ := regexp.MatchString(`^[0-9A-Za-z]{26}$`, id); matched {
		return fmt.Errorf("invalid negotiation ID '%s'. Use full ID format: NEG-%s", id, strings.ToUpper(id))
	}

	// Generic invalid format
	return fmt.Errorf("invalid negotiation ID '%s'. Expected format: NEG-<26 character ULID>", id)
}

// validatePrices rejects obviously wrong limits before any service call.
func validatePrices(buyerMax, sellerMin float64) error {
	if buyerMax <= 0 {
		return fmt.Errorf("--buyer-max must be positive (got %.2f)", buyerMax)
	}
	if sellerMin < 0 {
		return fmt.Errorf("--seller-min must not be negative (got %.2f)", sellerMin)
	}
	return nil
}
