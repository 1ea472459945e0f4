package store

import (
	"context"
	"time"

	"github.com/roach88/memento/internal/model"
)

// ItemStats summarizes the review performance of one item.
type ItemStats struct {
	Item       model.Item
	Attempts   int
	MeanGrade  float64
	BestGrade  model.Rating
	WorstGrade model.Rating
	LastGrade  model.Rating
	LastReview *time.Time
	NextDue    *time.Time
}

// OwnerStats aggregates review performance for one owner.
// Only items with at least one review appear in Items.
type OwnerStats struct {
	TotalItems    int
	ReviewedItems int
	TotalReviews  int
	MeanGrade     float64
	Items         []ItemStats
}

// Stats computes per-item and overall performance for an owner.
func (s *Store) Stats(ctx context.Context, ownerID string) (OwnerStats, error) {
	snapshot, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return OwnerStats{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, COUNT(*), AVG(grade), MAX(grade), MIN(grade), SUM(grade)
		FROM history
		WHERE owner_id = ?
		GROUP BY item_id
	`, ownerID)
	if err != nil {
		return OwnerStats{}, &PersistenceError{Op: "stats", Err: err}
	}
	defer rows.Close()

	type agg struct {
		count      int
		mean       float64
		best, wrst int
	}
	byItem := make(map[int64]agg)
	var gradeSum int
	for rows.Next() {
		var (
			itemID int64
			a      agg
			sum    int
		)
		if err := rows.Scan(&itemID, &a.count, &a.mean, &a.best, &a.wrst, &sum); err != nil {
			return OwnerStats{}, &PersistenceError{Op: "stats: scan", Err: err}
		}
		byItem[itemID] = a
		gradeSum += sum
	}
	if err := rows.Err(); err != nil {
		return OwnerStats{}, &PersistenceError{Op: "stats: iterate", Err: err}
	}

	stats := OwnerStats{TotalItems: len(snapshot), Items: []ItemStats{}}
	for _, is := range snapshot {
		a, ok := byItem[is.Item.ID]
		if !ok {
			continue
		}
		stats.ReviewedItems++
		stats.TotalReviews += a.count
		stats.Items = append(stats.Items, ItemStats{
			Item:       is.Item,
			Attempts:   a.count,
			MeanGrade:  a.mean,
			BestGrade:  model.Rating(a.best),
			WorstGrade: model.Rating(a.wrst),
			LastGrade:  is.State.LastGrade,
			LastReview: is.State.LastReview,
			NextDue:    is.State.Due,
		})
	}
	if stats.TotalReviews > 0 {
		stats.MeanGrade = float64(gradeSum) / float64(stats.TotalReviews)
	}
	return stats, nil
}
