package compose

import (
	"fmt"

	"github.com/example/haggle/internal/core/negotiation"
	"github.com/example/haggle/internal/templates"
)

type summaryData struct {
	Item       string
	Ceiling    float64
	Floor      float64
	Status     negotiation.Status
	FinalPrice float64
	Rounds     []string
}

type analysisData struct {
	Item        string
	Ceiling     float64
	Floor       float64
	MinPrice    float64
	MaxPrice    float64
	TotalRounds int
	Status      negotiation.Status
}

// SummaryPrompt renders the transcript summary request.
func SummaryPrompt(n *negotiation.Negotiation) (string, error) {
	rounds := make([]string, len(n.Offers))
	for i, o := range n.Offers {
		line := fmt.Sprintf("Round %d - %s: %s", o.Round, o.Role.Title(), o.Message)
		if o.HasPrice() {
			line += fmt.Sprintf(" ($%.2f)", *o.Price)
		}
		rounds[i] = line
	}
	data := summaryData{
		Item:    n.Item,
		Ceiling: n.Ceiling,
		Floor:   n.Floor,
		Status:  n.Status,
		Rounds:  rounds,
	}
	if n.FinalPrice != nil {
		data.FinalPrice = *n.FinalPrice
	}
	return templates.Render(templates.Summary, data)
}

// AnalysisPrompt renders the strategic analysis request.
func AnalysisPrompt(n *negotiation.Negotiation) (string, error) {
	data := analysisData{
		Item:        n.Item,
		Ceiling:     n.Ceiling,
		Floor:       n.Floor,
		TotalRounds: len(n.Offers),
		Status:      n.Status,
	}
	prices := negotiation.Prices(n.Offers)
	if len(prices) > 0 {
		data.MinPrice, data.MaxPrice = prices[0], prices[0]
		for _, p := range prices[1:] {
			data.MinPrice = min(data.MinPrice, p)
			data.MaxPrice = max(data.MaxPrice, p)
		}
	}
	return templates.Render(templates.Analysis, data)
}

// SummaryFailed is the inline text recorded when the summary cannot be generated.
func SummaryFailed(err error) string {
	return fmt.Sprintf("Summary generation failed: %v", err)
}

// AnalysisFailed is the inline text recorded when the analysis cannot be generated.
func AnalysisFailed(err error) string {
	return fmt.Sprintf("Analysis generation failed: %v", err)
}
