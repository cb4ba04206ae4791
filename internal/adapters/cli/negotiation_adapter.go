// Package cli contains terminal adapters that translate CLI operations to service calls.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/haggle/internal/ports/primary"
)

// NegotiationAdapter is a thin adapter that translates CLI operations to NegotiationService calls.
// It depends only on the NegotiationService interface, enabling easy testing with mocks.
type NegotiationAdapter struct {
	service primary.NegotiationService
	out     io.Writer
}

// NewNegotiationAdapter creates a new NegotiationAdapter with the given service.
func NewNegotiationAdapter(service primary.NegotiationService, out io.Writer) *NegotiationAdapter {
	return &NegotiationAdapter{
		service: service,
		out:     out,
	}
}

// Negotiate runs a new negotiation and prints its transcript and outcome.
func (a *NegotiationAdapter) Negotiate(ctx context.Context, req primary.StartNegotiationRequest) (*primary.Negotiation, error) {
	fmt.Fprintf(a.out, "Negotiating: %s\n", req.Item)
	fmt.Fprintf(a.out, "Buyer max: $%.2f   Seller min: $%.2f\n\n", req.BuyerMax, req.SellerMin)

	n, err := a.service.StartNegotiation(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start negotiation: %w", err)
	}

	a.Render(n)
	return n, nil
}

// Continue advances a negotiation by one step and prints the rounds it added.
func (a *NegotiationAdapter) Continue(ctx context.Context, n *primary.Negotiation) (*primary.Negotiation, error) {
	before := len(n.Rounds)

	next, err := a.service.ContinueNegotiation(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to continue negotiation: %w", err)
	}

	if len(next.Rounds) == before {
		fmt.Fprintf(a.out, "Negotiation %s is already %s; nothing to do.\n", next.ID, next.Status)
		return next, nil
	}

	for _, offer := range next.Rounds[before:] {
		a.renderOffer(offer)
	}
	fmt.Fprintln(a.out)
	a.renderOutcome(next)
	return next, nil
}

// History lists the most recent agreed negotiations.
func (a *NegotiationAdapter) History(ctx context.Context, limit int) ([]*primary.NegotiationSummary, error) {
	entries, err := a.service.ListHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No negotiations found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Run your first negotiation:")
		fmt.Fprintln(a.out, `  haggle negotiate "Used 2018 Honda Civic" --buyer-max 15000 --seller-min 12000`)
		return entries, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tBUYER MAX\tSELLER MIN\tFINAL\tDATE")
	fmt.Fprintln(w, "--\t----\t---------\t----------\t-----\t----")

	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t$%.2f\t$%.2f\t$%.2f\t%s\n",
			e.ID,
			truncate(e.Item, 40),
			e.BuyerMax,
			e.SellerMin,
			e.FinalPrice,
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	w.Flush()
	return entries, nil
}

// Show prints a stored negotiation.
func (a *NegotiationAdapter) Show(ctx context.Context, id string) (*primary.Negotiation, error) {
	n, err := a.service.GetNegotiation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get negotiation: %w", err)
	}

	fmt.Fprintf(a.out, "Negotiation: %s\n", n.ID)
	fmt.Fprintf(a.out, "Item:        %s\n", n.Item)
	fmt.Fprintf(a.out, "Buyer max:   $%.2f\n", n.BuyerMax)
	fmt.Fprintf(a.out, "Seller min:  $%.2f\n", n.SellerMin)
	if n.CreatedAt != nil {
		fmt.Fprintf(a.out, "Created:     %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(a.out)

	a.Render(n)
	return n, nil
}

// Render prints the full transcript followed by the outcome and any report.
func (a *NegotiationAdapter) Render(n *primary.Negotiation) {
	for _, offer := range n.Rounds {
		a.renderOffer(offer)
	}
	fmt.Fprintln(a.out)
	a.renderOutcome(n)
}

func (a *NegotiationAdapter) renderOffer(offer primary.Offer) {
	fmt.Fprintf(a.out, "[Round %d] %s: %s\n", offer.Round, agentLabel(offer.Agent), offer.Message)
}

func (a *NegotiationAdapter) renderOutcome(n *primary.Negotiation) {
	switch n.Status {
	case "agreed":
		price := 0.0
		if n.FinalPrice != nil {
			price = *n.FinalPrice
		}
		fmt.Fprintln(a.out, color.New(color.FgHiGreen, color.Bold).Sprintf("✓ Deal reached at $%.2f after %d rounds", price, len(n.Rounds)))
	case "failed":
		fmt.Fprintln(a.out, color.New(color.FgRed, color.Bold).Sprintf("✗ No deal: %s", n.Reason))
	default:
		fmt.Fprintln(a.out, color.New(color.FgYellow).Sprintf("… Negotiation ongoing, next speaker: %s", n.NextSpeaker))
		fmt.Fprintln(a.out, "  Save it with --out and resume with: haggle continue --file <path>")
		return
	}

	if n.Summary != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, color.New(color.Bold).Sprint("Summary"))
		fmt.Fprintln(a.out, n.Summary)
	}
	if n.Analysis != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, color.New(color.Bold).Sprint("Analysis"))
		fmt.Fprintln(a.out, n.Analysis)
	}
}

// agentLabel colors a role name: buyer blue, seller green, mediator magenta.
func agentLabel(agent string) string {
	title := agent
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}

	switch agent {
	case "buyer":
		return color.New(color.FgHiBlue).Sprint(title)
	case "seller":
		return color.New(color.FgHiGreen).Sprint(title)
	case "mediator":
		return color.New(color.FgHiMagenta).Sprint(title)
	default:
		return title
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
