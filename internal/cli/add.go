package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/memento/internal/model"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Question string
	Answer   string
	Source   string
}

// AddResult is the JSON payload of the add command.
type AddResult struct {
	ID int64 `json:"id"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a question/answer item",
		Long: `Add one reviewable item for the owner.

A new item has no history and is due immediately.

Examples:
  memento add --owner alice -q "Capital of Peru?" -a "Lima"
  memento add --owner alice -q "..." -a "..." --source notes.pdf#block-3`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Question, "question", "q", "", "question text (required)")
	cmd.Flags().StringVarP(&opts.Answer, "answer", "a", "", "answer text (required)")
	cmd.Flags().StringVar(&opts.Source, "source", "", "reference to the source content")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	e, err := openEnv(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	id, err := e.store.CreateItem(ctx, model.Item{
		OwnerID:   e.owner,
		SourceRef: opts.Source,
		Question:  opts.Question,
		Answer:    opts.Answer,
		CreatedAt: e.clock.Now(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to add item", err)
	}

	if e.out.IsJSON() {
		return e.out.Success(AddResult{ID: id})
	}
	return e.out.Success(fmt.Sprintf("Added item %d", id))
}
