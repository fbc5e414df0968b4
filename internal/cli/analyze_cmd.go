package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/serenlabs/lucid/internal/analytics"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run all analytics plugins over the experience log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			var since time.Time
			var timeRange *analytics.TimeRange
			if days > 0 {
				now := time.Now()
				since = now.AddDate(0, 0, -days)
				timeRange = &analytics.TimeRange{Start: since, End: now}
			}

			experiences, err := a.experiences.List(since)
			if err != nil {
				return err
			}
			catalog, err := a.substances.Catalog()
			if err != nil {
				return err
			}

			actx := &analytics.Context{
				Experiences:      experiences,
				Catalog:          catalog,
				Range:            timeRange,
				RiskWindowDays:   cfg.Analytics.RiskWindowDays,
				RecentSampleSize: cfg.Analytics.RecentSampleSize,
			}
			results, failures := a.dispatcher.ExecuteAnalytics(cmd.Context(), actx)
			for _, f := range failures {
				log.Warn().Str("analyzer", f.String()).Bool("timedOut", f.TimedOut).Msg("analyzer dropped")
			}

			printResults(results, len(experiences))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "limit analysis to the last N days (0 = full history)")
	return cmd
}

func printResults(results []analytics.Result, experienceCount int) {
	merged := &analytics.Result{}
	for i := range results {
		merged.Merge(&results[i])
	}

	fmt.Printf("Analyzed %d experiences.\n\n", experienceCount)

	if len(merged.Insights) == 0 && merged.Risk == nil {
		fmt.Println("No findings.")
		return
	}

	if len(merged.Insights) > 0 {
		fmt.Println("Insights:")
		for _, ins := range merged.Insights {
			fmt.Printf("  [%s] %s (confidence %.0f%%)\n", strings.ToUpper(string(ins.Severity)), ins.Title, ins.Confidence*100)
			fmt.Printf("      %s\n", ins.Description)
		}
		fmt.Println()
	}

	if len(merged.Recommendations) > 0 {
		fmt.Println("Recommendations:")
		for _, rec := range merged.Recommendations {
			fmt.Printf("  [%s/%s] %s\n", rec.Priority, rec.Category, rec.Title)
			fmt.Printf("      %s\n", rec.Description)
		}
		fmt.Println()
	}

	if merged.Risk != nil {
		fmt.Printf("Risk: %.2f (%s)\n", merged.Risk.OverallRisk, strings.ToUpper(string(merged.Risk.Level)))
		for _, f := range merged.Risk.Factors {
			fmt.Printf("  %s: %.2f (%s)\n", f.Name, f.Score, f.Description)
		}
		for _, mit := range merged.Risk.Mitigations {
			fmt.Printf("  mitigation: %s\n", mit)
		}
	}
}
