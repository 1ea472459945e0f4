package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/memento/internal/clock"
	"github.com/roach88/memento/internal/engine"
)

// ReviewOptions holds flags for the review command.
type ReviewOptions struct {
	*RootOptions
	At      string
	AskDate bool
	Item    int64
	Limit   int
}

// ReviewItemResult is one row of the review command's JSON output.
type ReviewItemResult struct {
	ID      int64      `json:"id"`
	Grade   string     `json:"grade,omitempty"`
	State   string     `json:"state,omitempty"`
	Due     *time.Time `json:"due,omitempty"`
	EntryID int64      `json:"entry_id,omitempty"`
	Error   *CLIError  `json:"error,omitempty"`
}

// ReviewResult is the JSON payload of the review command.
type ReviewResult struct {
	SessionID string             `json:"session_id"`
	Now       time.Time          `json:"now"`
	Reviewed  int                `json:"reviewed"`
	Skipped   int                `json:"skipped"`
	Failed    int                `json:"failed"`
	Stopped   bool               `json:"stopped"`
	Items     []ReviewItemResult `json:"items"`
}

// NewReviewCommand creates the review command.
func NewReviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReviewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run an interactive review session",
		Long: `Review every due item in order.

For each item the question is shown and your answer is read from stdin. The
stored answer is then revealed and you grade yourself:

  1 = Again   2 = Hard   3 = Good   4 = Easy   q = quit

An invalid grade skips the item without recording anything. Ending input
(Ctrl-D) or q ends the session; reviews already graded are kept.

Examples:
  memento review --owner alice
  memento review --owner alice --at "25/12/2024 10:00"
  memento review --owner alice --ask-date`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", `review as of DD/MM/YYYY[ HH:MM] instead of now ("now" or "agora" for real time)`)
	cmd.Flags().BoolVar(&opts.AskDate, "ask-date", false, "prompt for the review date before starting")
	cmd.Flags().Int64Var(&opts.Item, "item", 0, "review only this item")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of items to review (0 = all)")

	return cmd
}

func runReview(opts *ReviewOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	e, err := openEnv(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.applyAt(opts.At); err != nil {
		return err
	}

	// Prompts go to stderr in JSON mode so stdout stays parseable.
	promptOut := e.out.Writer
	if e.out.IsJSON() {
		promptOut = e.out.GetErrWriter()
	}
	grader := &promptGrader{
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: promptOut,
		env: e,
	}

	if opts.AskDate {
		if err := grader.askDate(); err != nil {
			return WrapExitError(ExitCommandError, "no review date given", err)
		}
	}

	sessionOpts := []engine.SessionOption{
		engine.WithReporter(grader.report),
	}
	if opts.Item != 0 {
		sessionOpts = append(sessionOpts, engine.WithItem(opts.Item))
	}
	if opts.Limit > 0 {
		sessionOpts = append(sessionOpts, engine.WithLimit(opts.Limit))
	}

	report, err := e.engine.RunSession(ctx, e.owner, grader, sessionOpts...)
	if err != nil {
		return e.out.EngineError("review session failed", err)
	}

	if e.out.IsJSON() {
		return e.out.Success(reviewResult(report))
	}

	w := e.out.Writer
	if report.Selected == 0 {
		fmt.Fprintf(w, "Nothing due at %s.\n", e.formatTime(&report.Now))
		return nil
	}
	fmt.Fprintf(w, "\nSession %s: %d reviewed, %d skipped, %d failed\n",
		report.SessionID, report.Reviewed, report.Skipped, report.Failed)
	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d review(s) could not be saved", report.Failed))
	}
	return nil
}

func reviewResult(report engine.SessionReport) ReviewResult {
	result := ReviewResult{
		SessionID: report.SessionID,
		Now:       report.Now,
		Reviewed:  report.Reviewed,
		Skipped:   report.Skipped,
		Failed:    report.Failed,
		Stopped:   report.Stopped,
		Items:     make([]ReviewItemResult, 0, len(report.Results)),
	}
	for _, r := range report.Results {
		row := ReviewItemResult{ID: r.Item.ID}
		if r.OK() {
			row.Grade = r.Rating.String()
			row.State = r.State.String()
			row.Due = r.Due
			row.EntryID = r.EntryID
		} else {
			row.Error = &CLIError{Code: string(engine.Code(r.Err)), Message: r.Err.Error()}
		}
		result.Items = append(result.Items, row)
	}
	return result
}

// promptGrader is the interactive engine.GradeSource.
type promptGrader struct {
	in  *bufio.Reader
	out io.Writer
	env *env
}

var _ engine.GradeSource = (*promptGrader)(nil)

// Grade shows the question, reads the learner's answer, reveals the stored
// answer and reads the grade. End of input and "q" stop the session.
func (g *promptGrader) Grade(ctx context.Context, p engine.Prompt) (engine.Response, error) {
	fmt.Fprintf(g.out, "\n[%d/%d] %s\n", p.Position, p.Total, p.Item.Question)
	if p.Item.SourceRef != "" {
		fmt.Fprintf(g.out, "  source: %s\n", p.Item.SourceRef)
	}
	if !p.State.IsNew() {
		fmt.Fprintf(g.out, "  last grade: %s\n", p.State.LastGrade)
	}

	fmt.Fprint(g.out, "Your answer: ")
	answer, err := g.readLine()
	if err != nil {
		return engine.Response{}, err
	}

	fmt.Fprintf(g.out, "Answer: %s\n", p.Item.Answer)
	fmt.Fprint(g.out, "Grade (1=Again 2=Hard 3=Good 4=Easy, q=quit): ")
	grade, err := g.readLine()
	if err != nil {
		return engine.Response{}, err
	}
	if strings.EqualFold(grade, "q") {
		return engine.Response{}, engine.ErrStopSession
	}
	return engine.Response{Answer: answer, Grade: grade}, nil
}

// report prints the outcome of one item.
func (g *promptGrader) report(r engine.ItemResult) {
	switch {
	case r.OK() && r.Due == nil:
		fmt.Fprintf(g.out, "  %s: no further review\n", r.Rating)
	case r.OK():
		fmt.Fprintf(g.out, "  %s: next review %s (%s)\n", r.Rating, g.env.formatTime(r.Due), r.State)
	case engine.IsInvalidGrade(r.Err):
		var ige *engine.InvalidGradeError
		input := ""
		if errors.As(r.Err, &ige) {
			input = ige.Input
		}
		fmt.Fprintf(g.out, "  invalid grade %q: item skipped\n", input)
	default:
		fmt.Fprintf(g.out, "  not saved [%s]: %v\n", engine.Code(r.Err), r.Err)
	}
}

// askDate prompts until a valid review date or reset keyword is entered.
func (g *promptGrader) askDate() error {
	for {
		fmt.Fprint(g.out, "Review date (DD/MM/YYYY [HH:MM], or 'now'): ")
		line, err := g.readLine()
		if err != nil {
			return err
		}
		t, err := g.env.clock.Apply(line)
		if errors.Is(err, clock.ErrClockFormat) {
			fmt.Fprintf(g.out, "  %v, try again\n", err)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(g.out, "Reviewing as of %s\n", g.env.formatTime(&t))
		return nil
	}
}

// readLine reads one trimmed line. End of input maps to ErrStopSession so
// the session ends cleanly.
func (g *promptGrader) readLine() (string, error) {
	line, err := g.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if strings.TrimSpace(line) == "" {
			fmt.Fprintln(g.out)
			return "", engine.ErrStopSession
		}
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
