package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/memento/internal/deck"
)

// ImportResult is the JSON payload of the import command.
type ImportResult struct {
	Source string  `json:"source"`
	IDs    []int64 `json:"ids"`
	Count  int     `json:"count"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <deck.yaml>",
		Short: "Import items from a YAML deck",
		Long: `Import every card of a YAML deck as a new item for the owner.

Deck format:
  source: biology.pdf
  cards:
    - question: What is the powerhouse of the cell?
      answer: The mitochondria
      ref: "#block-3"

Example:
  memento import --owner alice ./biology.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	d, err := deck.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load deck", err)
	}

	e, err := openEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ids, err := deck.Import(ctx, e.store, d, e.owner, e.clock.Now())
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("imported %d of %d cards", len(ids), len(d.Cards)), err)
	}
	e.out.VerboseLog("imported ids %v", ids)

	if e.out.IsJSON() {
		return e.out.Success(ImportResult{Source: path, IDs: ids, Count: len(ids)})
	}
	return e.out.Success(fmt.Sprintf("Imported %d item(s) from %s", len(ids), filepath.Base(path)))
}
