// Package costs projects monthly AI spend from usage assumptions.
// Pure arithmetic for capacity planning; nothing here touches the runtime
// hot path or any provider.
package costs

import (
	"fmt"
	"strings"
)

type ClusteringFrequency string

const (
	ClusteringDaily  ClusteringFrequency = "daily"
	ClusteringWeekly ClusteringFrequency = "weekly"
	ClusteringNever  ClusteringFrequency = "never"
)

// UsageAssumptions describes expected load for one deployment tier.
type UsageAssumptions struct {
	ActiveUsers             int
	MessagesPerUserPerDay   float64
	AvgMessageLength        int     // characters
	EmbeddingGenerationRate float64 // fraction of messages that generate embeddings
	ClassificationRate      float64 // fraction of messages that get classified
	InsightsPerUserPerWeek  float64
	ClusteringFrequency     ClusteringFrequency
}

type OperationCost struct {
	RequestsPerMonth float64
	TokensPerMonth   float64
	CostPerMonth     float64
}

type CostBreakdown struct {
	Embeddings     OperationCost
	Classification OperationCost
	Insights       OperationCost
	Clustering     OperationCost
	Total          OperationCost
}

// Provider prices per 1M tokens (USD).
const (
	embeddingPricePerMillion   = 0.02 // text-embedding class models
	cheapModelPricePerMillion  = 0.75 // small generation model, blended input+output
	mediumModelPricePerMillion = 6.25 // mid-tier generation model, blended
)

// Token size assumptions per operation.
const (
	tokensPerMessage           = 150
	tokensClassificationInput  = 200
	tokensClassificationOutput = 50
	tokensInsightInput         = 2000
	tokensInsightOutput        = 300
	tokensClusteringPerNote    = 10
)

const daysPerMonth = 30

// EstimateMonthlyCost maps usage assumptions to a cost breakdown per
// operation kind plus totals.
func EstimateMonthlyCost(a UsageAssumptions) CostBreakdown {
	messagesPerMonth := float64(a.ActiveUsers) * a.MessagesPerUserPerDay * daysPerMonth

	// Embeddings
	embeddingRequests := messagesPerMonth * a.EmbeddingGenerationRate
	embeddingTokens := embeddingRequests * tokensPerMessage
	embeddings := OperationCost{
		RequestsPerMonth: embeddingRequests,
		TokensPerMonth:   embeddingTokens,
		CostPerMonth:     embeddingTokens / 1_000_000 * embeddingPricePerMillion,
	}

	// Classification
	classificationRequests := messagesPerMonth * a.ClassificationRate
	classificationTokens := classificationRequests * (tokensClassificationInput + tokensClassificationOutput)
	classification := OperationCost{
		RequestsPerMonth: classificationRequests,
		TokensPerMonth:   classificationTokens,
		CostPerMonth:     classificationTokens / 1_000_000 * cheapModelPricePerMillion,
	}

	// Insights
	insightRequests := float64(a.ActiveUsers) * a.InsightsPerUserPerWeek * 4
	insightTokens := insightRequests * (tokensInsightInput + tokensInsightOutput)
	insights := OperationCost{
		RequestsPerMonth: insightRequests,
		TokensPerMonth:   insightTokens,
		CostPerMonth:     insightTokens / 1_000_000 * mediumModelPricePerMillion,
	}

	// Clustering: vector math is local, the token cost models the marginal
	// prompt traffic around each sweep.
	var clusteringRequests float64
	switch a.ClusteringFrequency {
	case ClusteringDaily:
		clusteringRequests = float64(a.ActiveUsers) * daysPerMonth
	case ClusteringWeekly:
		clusteringRequests = float64(a.ActiveUsers) * 4
	}

	avgNotesPerUser := a.MessagesPerUserPerDay * daysPerMonth
	clusteringTokens := clusteringRequests * avgNotesPerUser * tokensClusteringPerNote
	clustering := OperationCost{
		RequestsPerMonth: clusteringRequests,
		TokensPerMonth:   clusteringTokens,
		CostPerMonth:     clusteringTokens / 1_000_000 * cheapModelPricePerMillion,
	}

	total := OperationCost{
		RequestsPerMonth: embeddings.RequestsPerMonth + classification.RequestsPerMonth +
			insights.RequestsPerMonth + clustering.RequestsPerMonth,
		TokensPerMonth: embeddings.TokensPerMonth + classification.TokensPerMonth +
			insights.TokensPerMonth + clustering.TokensPerMonth,
		CostPerMonth: embeddings.CostPerMonth + classification.CostPerMonth +
			insights.CostPerMonth + clustering.CostPerMonth,
	}

	return CostBreakdown{
		Embeddings:     embeddings,
		Classification: classification,
		Insights:       insights,
		Clustering:     clustering,
		Total:          total,
	}
}

// YearlyCost projects the monthly total to a year.
func (b CostBreakdown) YearlyCost() float64 {
	return b.Total.CostPerMonth * 12
}

type UsageTier struct {
	Name        string
	Assumptions UsageAssumptions
}

// UsageTiers are the planning presets used in capacity reports.
var UsageTiers = []UsageTier{
	{
		Name: "Small (100 users)",
		Assumptions: UsageAssumptions{
			ActiveUsers:             100,
			MessagesPerUserPerDay:   10,
			AvgMessageLength:        500,
			EmbeddingGenerationRate: 0.8,
			ClassificationRate:      0.5,
			InsightsPerUserPerWeek:  1,
			ClusteringFrequency:     ClusteringDaily,
		},
	},
	{
		Name: "Medium (500 users)",
		Assumptions: UsageAssumptions{
			ActiveUsers:             500,
			MessagesPerUserPerDay:   15,
			AvgMessageLength:        500,
			EmbeddingGenerationRate: 0.8,
			ClassificationRate:      0.5,
			InsightsPerUserPerWeek:  1,
			ClusteringFrequency:     ClusteringDaily,
		},
	},
	{
		Name: "Large (2000 users)",
		Assumptions: UsageAssumptions{
			ActiveUsers:             2000,
			MessagesPerUserPerDay:   20,
			AvgMessageLength:        500,
			EmbeddingGenerationRate: 0.8,
			ClassificationRate:      0.5,
			InsightsPerUserPerWeek:  1,
			ClusteringFrequency:     ClusteringWeekly,
		},
	},
}

func formatCount(num float64) string {
	switch {
	case num >= 1_000_000:
		return fmt.Sprintf("%.2fM", num/1_000_000)
	case num >= 1_000:
		return fmt.Sprintf("%.2fK", num/1_000)
	default:
		return fmt.Sprintf("%.0f", num)
	}
}

// FormatReport renders the breakdown as a plain-text planning report.
func FormatReport(b CostBreakdown) string {
	var sb strings.Builder

	sb.WriteString("AI Cost Breakdown (Monthly)\n")
	sb.WriteString("============================\n\n")

	section := func(name string, c OperationCost) {
		sb.WriteString(name + ":\n")
		sb.WriteString(fmt.Sprintf("  Requests: %s\n", formatCount(c.RequestsPerMonth)))
		sb.WriteString(fmt.Sprintf("  Tokens:   %s\n", formatCount(c.TokensPerMonth)))
		sb.WriteString(fmt.Sprintf("  Cost:     $%.2f\n\n", c.CostPerMonth))
	}

	section("Embeddings", b.Embeddings)
	section("Classification", b.Classification)
	section("Insights", b.Insights)
	section("Clustering", b.Clustering)

	sb.WriteString("-----------------------------\n")
	sb.WriteString("TOTAL:\n")
	sb.WriteString(fmt.Sprintf("  Requests: %s\n", formatCount(b.Total.RequestsPerMonth)))
	sb.WriteString(fmt.Sprintf("  Tokens:   %s\n", formatCount(b.Total.TokensPerMonth)))
	sb.WriteString(fmt.Sprintf("  Cost:     $%.2f/month ($%.2f/year)\n", b.Total.CostPerMonth, b.YearlyCost()))

	return sb.String()
}
