package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/memento/internal/engine"
)

// DueOptions holds flags for the due command.
type DueOptions struct {
	*RootOptions
	At string
}

// DueItemResult is one row of the due command's JSON output.
type DueItemResult struct {
	ID        int64      `json:"id"`
	Question  string     `json:"question"`
	SourceRef string     `json:"source_ref,omitempty"`
	State     string     `json:"state"`
	Due       *time.Time `json:"due"`
	LastGrade string     `json:"last_grade,omitempty"`
}

// DueResult is the JSON payload of the due command.
type DueResult struct {
	Now   time.Time       `json:"now"`
	Items []DueItemResult `json:"items"`
}

// NewDueCommand creates the due command.
func NewDueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List items due for review",
		Long: `List the owner's items that are due, in review order.

Never-reviewed items come first, then items by due date (oldest first).

Examples:
  memento due --owner alice
  memento due --owner alice --at "25/12/2024 10:00" --tz -03:00`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDue(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", `list as of DD/MM/YYYY[ HH:MM] instead of now ("now" or "agora" for real time)`)

	return cmd
}

func runDue(opts *DueOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	e, err := openEnv(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.applyAt(opts.At); err != nil {
		return err
	}

	now := e.clock.Now()
	due, err := e.engine.SelectDue(ctx, e.owner, now, nil)
	if err != nil {
		return e.out.EngineError("failed to select due items", err)
	}

	if e.out.IsJSON() {
		result := DueResult{Now: now, Items: make([]DueItemResult, 0, len(due))}
		for _, d := range due {
			row := DueItemResult{
				ID:        d.Item.ID,
				Question:  d.Item.Question,
				SourceRef: d.Item.SourceRef,
				State:     d.State.State.String(),
				Due:       d.State.Due,
			}
			if !d.State.IsNew() {
				row.LastGrade = d.State.LastGrade.String()
			}
			result.Items = append(result.Items, row)
		}
		return e.out.Success(result)
	}

	return outputDueText(e, now, due)
}

func outputDueText(e *env, now time.Time, due []engine.DueItem) error {
	w := e.out.Writer
	if len(due) == 0 {
		fmt.Fprintf(w, "Nothing due at %s.\n", e.formatTime(&now))
		return nil
	}

	fmt.Fprintf(w, "%d item(s) due at %s\n\n", len(due), e.formatTime(&now))
	fmt.Fprintf(w, "%4s  %-10s  %-16s  %s\n", "ID", "STATE", "DUE", "QUESTION")
	for _, d := range due {
		fmt.Fprintf(w, "%4d  %-10s  %-16s  %s\n",
			d.Item.ID, d.State.State, e.formatTime(d.State.Due), d.Item.Question)
	}
	return nil
}
