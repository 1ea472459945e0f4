// Package deck reads question/answer decks from YAML files.
//
// A deck stands in for the output of the ingestion pipeline: each card
// becomes one item when imported.
//
//	source: biology.pdf
//	cards:
//	  - question: What is the powerhouse of the cell?
//	    answer: The mitochondria
//	    ref: "#block-3"
package deck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/memento/internal/model"
)

// Deck is a parsed deck file.
type Deck struct {
	// Source names the document the cards were generated from.
	// Prefixed to each card's Ref to build the item's source reference.
	Source string `yaml:"source,omitempty"`

	Cards []Card `yaml:"cards"`
}

// Card is one question/answer pair.
type Card struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
	Ref      string `yaml:"ref,omitempty"`
}

// ErrInvalidDeck is returned for decks that are malformed or incomplete.
var ErrInvalidDeck = errors.New("invalid deck")

// Load reads and parses a deck file.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}
	return Parse(data)
}

// Parse decodes deck YAML. Unknown fields are rejected so typos like
// "awnser:" surface instead of silently importing empty answers.
func Parse(data []byte) (*Deck, error) {
	var d Deck
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidDeck, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that the deck has cards and every card is complete.
func (d *Deck) Validate() error {
	if len(d.Cards) == 0 {
		return fmt.Errorf("%w: no cards", ErrInvalidDeck)
	}
	for i, c := range d.Cards {
		if model.NormalizeText(c.Question) == "" {
			return fmt.Errorf("%w: card %d: question is required", ErrInvalidDeck, i+1)
		}
		if model.NormalizeText(c.Answer) == "" {
			return fmt.Errorf("%w: card %d: answer is required", ErrInvalidDeck, i+1)
		}
	}
	return nil
}

// Items converts the deck into items owned by ownerID, stamped with
// createdAt. IDs are left for the store to assign.
func (d *Deck) Items(ownerID string, createdAt time.Time) []model.Item {
	items := make([]model.Item, 0, len(d.Cards))
	for _, c := range d.Cards {
		items = append(items, model.Item{
			OwnerID:   ownerID,
			SourceRef: d.Source + c.Ref,
			Question:  c.Question,
			Answer:    c.Answer,
			CreatedAt: createdAt,
		})
	}
	return items
}

// ItemCreator is implemented by *store.Store.
type ItemCreator interface {
	CreateItem(ctx context.Context, item model.Item) (int64, error)
}

// Import creates one item per card and returns the assigned IDs in deck
// order. On failure the IDs created so far are returned with the error.
func Import(ctx context.Context, dst ItemCreator, d *Deck, ownerID string, createdAt time.Time) ([]int64, error) {
	ids := make([]int64, 0, len(d.Cards))
	for i, item := range d.Items(ownerID, createdAt) {
		id, err := dst.CreateItem(ctx, item)
		if err != nil {
			return ids, fmt.Errorf("import card %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
