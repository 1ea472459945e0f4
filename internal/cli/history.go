package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/memento/internal/model"
)

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Item    model.Item               `json:"item"`
	State   model.ReconstructedState `json:"state"`
	Entries []model.HistoryEntry     `json:"entries"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <item-id>",
		Short: "Show the review history of an item",
		Long: `Show every recorded review of one item, oldest first, and the state
reconstructed from the latest one.

Example:
  memento history --owner alice 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid item id", err)
			}
			return runHistory(rootOpts, id, cmd)
		},
	}
	return cmd
}

func runHistory(opts *RootOptions, itemID int64, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	e, err := openEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	item, err := e.store.ReadOwnedItem(ctx, e.owner, itemID)
	if err != nil {
		return e.out.EngineError("failed to read item", err)
	}
	entries, err := e.store.ReadHistory(ctx, itemID)
	if err != nil {
		return e.out.EngineError("failed to read history", err)
	}
	state, err := e.store.ReconstructState(ctx, itemID)
	if err != nil {
		return e.out.EngineError("failed to reconstruct state", err)
	}

	if e.out.IsJSON() {
		return e.out.Success(HistoryResult{Item: item, State: state, Entries: entries})
	}

	w := e.out.Writer
	fmt.Fprintf(w, "Item %d: %s\n", item.ID, item.Question)
	fmt.Fprintf(w, "State: %s, due %s\n\n", state.State, e.formatTime(state.Due))
	if len(entries) == 0 {
		fmt.Fprintln(w, "No reviews yet.")
		return nil
	}
	fmt.Fprintf(w, "%-16s  %-5s  %-10s  %s\n", "REVIEWED", "GRADE", "STATE", "DUE")
	for _, h := range entries {
		reviewed := h.ReviewedAt
		fmt.Fprintf(w, "%-16s  %-5s  %-10s  %s\n",
			e.formatTime(&reviewed), h.Grade, h.State, e.formatTime(h.Due))
	}
	return nil
}
