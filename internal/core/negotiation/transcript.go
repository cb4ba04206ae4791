package negotiation

import (
	"fmt"
	"strings"
)

// Prices returns the prices of all priced offers in round order.
func Prices(offers []Offer) []float64 {
	prices := make([]float64, 0, len(offers))
	for _, o := range offers {
		if o.HasPrice() {
			prices = append(prices, *o.Price)
		}
	}
	return prices
}

// RecentPrices returns up to k most recent prices, oldest first.
func RecentPrices(offers []Offer, k int) []float64 {
	result := make([]float64, 0, k)
	for i := len(offers) - 1; i >= 0 && len(result) < k; i-- {
		if offers[i].HasPrice() {
			result = append(result, *offers[i].Price)
		}
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// Messages returns every offer message in round order.
func Messages(offers []Offer) []string {
	msgs := make([]string, len(offers))
	for i, o := range offers {
		msgs[i] = o.Message
	}
	return msgs
}

// TranscriptText renders the offers as "Round N - Role: message" lines.
func TranscriptText(offers []Offer) string {
	lines := make([]string, len(offers))
	for i, o := range offers {
		lines[i] = fmt.Sprintf("Round %d - %s: %s", o.Round, o.Role.Title(), o.Message)
	}
	return strings.Join(lines, "\n")
}

// TurnsTaken counts the responses a role has already made. The buyer's opening
// offer in round 1 is not a response and is not counted.
func TurnsTaken(offers []Offer, role Role) int {
	count := 0
	for _, o := range offers {
		if o.Role != role {
			continue
		}
		if role == RoleBuyer && o.Round == 1 {
			continue
		}
		count++
	}
	return count
}

// ResolveNextSpeaker derives whose turn it is from the transcript. It is used
// only when a resumed negotiation carries no explicit next speaker.
func ResolveNextSpeaker(offers []Offer) Role {
	for i := len(offers) - 1; i >= 0; i-- {
		if offers[i].Role.IsRegular() {
			return offers[i].Role.Counterpart()
		}
	}
	return RoleBuyer
}
