package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/memento/internal/store"
)

// ItemStatsResult is one row of the stats command's JSON output.
type ItemStatsResult struct {
	ID         int64      `json:"id"`
	Question   string     `json:"question"`
	Attempts   int        `json:"attempts"`
	MeanGrade  float64    `json:"mean_grade"`
	BestGrade  string     `json:"best_grade"`
	WorstGrade string     `json:"worst_grade"`
	LastGrade  string     `json:"last_grade"`
	LastReview *time.Time `json:"last_review"`
	NextDue    *time.Time `json:"next_due"`
}

// StatsResult is the JSON payload of the stats command.
type StatsResult struct {
	TotalItems    int               `json:"total_items"`
	ReviewedItems int               `json:"reviewed_items"`
	TotalReviews  int               `json:"total_reviews"`
	MeanGrade     float64           `json:"mean_grade"`
	Items         []ItemStatsResult `json:"items"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show review performance per item",
		Long: `Show how each reviewed item has been graded: number of attempts, mean,
best, worst and last grade, and when it is next due.

Example:
  memento stats --owner alice`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	e, err := openEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	stats, err := e.store.Stats(ctx, e.owner)
	if err != nil {
		return e.out.EngineError("failed to compute stats", err)
	}

	if e.out.IsJSON() {
		return e.out.Success(statsResult(stats))
	}

	w := e.out.Writer
	fmt.Fprintf(w, "%d item(s), %d reviewed, %d review(s), mean grade %.2f\n",
		stats.TotalItems, stats.ReviewedItems, stats.TotalReviews, stats.MeanGrade)
	if len(stats.Items) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%4s  %8s  %4s  %-5s  %-5s  %-5s  %-16s  %s\n",
		"ID", "ATTEMPTS", "MEAN", "BEST", "WORST", "LAST", "NEXT DUE", "QUESTION")
	for _, it := range stats.Items {
		fmt.Fprintf(w, "%4d  %8d  %4.2f  %-5s  %-5s  %-5s  %-16s  %s\n",
			it.Item.ID, it.Attempts, it.MeanGrade, it.BestGrade, it.WorstGrade, it.LastGrade,
			e.formatTime(it.NextDue), it.Item.Question)
	}
	return nil
}

func statsResult(s store.OwnerStats) StatsResult {
	result := StatsResult{
		TotalItems:    s.TotalItems,
		ReviewedItems: s.ReviewedItems,
		TotalReviews:  s.TotalReviews,
		MeanGrade:     s.MeanGrade,
		Items:         make([]ItemStatsResult, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		result.Items = append(result.Items, ItemStatsResult{
			ID:         it.Item.ID,
			Question:   it.Item.Question,
			Attempts:   it.Attempts,
			MeanGrade:  it.MeanGrade,
			BestGrade:  it.BestGrade.String(),
			WorstGrade: it.WorstGrade.String(),
			LastGrade:  it.LastGrade.String(),
			LastReview: it.LastReview,
			NextDue:    it.NextDue,
		})
	}
	return result
}
