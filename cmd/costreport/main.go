package main

import (
	"fmt"

	"klutr-be/pkg/costs"

	"github.com/fatih/color"
)

func main() {
	heading := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgWhite)
	money := color.New(color.FgGreen, color.Bold)

	heading.Println("AI cost projections")
	fmt.Println()

	for _, tier := range costs.UsageTiers {
		breakdown := costs.EstimateMonthlyCost(tier.Assumptions)

		heading.Printf("=== %s ===\n", tier.Name)
		label.Printf("  Embeddings:     $%8.2f/mo\n", breakdown.Embeddings.CostPerMonth)
		label.Printf("  Classification: $%8.2f/mo\n", breakdown.Classification.CostPerMonth)
		label.Printf("  Insights:       $%8.2f/mo\n", breakdown.Insights.CostPerMonth)
		label.Printf("  Clustering:     $%8.2f/mo\n", breakdown.Clustering.CostPerMonth)
		money.Printf("  Total:          $%8.2f/mo ($%.2f/yr)\n", breakdown.Total.CostPerMonth, breakdown.YearlyCost())

		perUser := breakdown.Total.CostPerMonth / float64(tier.Assumptions.ActiveUsers)
		label.Printf("  Per user:       $%8.4f/mo\n", perUser)
		fmt.Println()
	}

	// Full plain-text report for the default tier, pasteable into planning docs.
	fmt.Println(costs.FormatReport(costs.EstimateMonthlyCost(costs.UsageTiers[0].Assumptions)))
}
