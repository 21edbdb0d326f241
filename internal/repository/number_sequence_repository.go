package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glanzwerk/crm/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequenceRepository keeps one counter per document prefix and year
type NumberSequenceRepository struct {
	db *gorm.DB
}

func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// Increment bumps the counter for prefix/year and returns the new value. The
// first call for a pair inserts it at 1. The upsert holds the row lock until
// the read-back commits, so concurrent callers never see the same value.
func (r *NumberSequenceRepository) Increment(ctx context.Context, prefix string, year int) (int, error) {
	var seq domain.NumberSequence
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		bump := clause.OnConflict{
			Columns: []clause.Column{{Name: "prefix"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_sequence": gorm.Expr("number_sequences.last_sequence + 1"),
				"updated_at":    now,
			}),
		}
		row := domain.NumberSequence{Prefix: prefix, Year: year, LastSequence: 1, CreatedAt: now, UpdatedAt: now}
		if err := tx.Clauses(bump).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("prefix = ? AND year = ?", prefix, year).Take(&seq).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to advance %s/%d sequence: %w", prefix, year, err)
	}
	return seq.LastSequence, nil
}

// Peek returns the last issued value without consuming one, 0 before first use
func (r *NumberSequenceRepository) Peek(ctx context.Context, prefix string, year int) (int, error) {
	var seq domain.NumberSequence
	err := r.db.WithContext(ctx).Where("prefix = ? AND year = ?", prefix, year).Take(&seq).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read %s/%d sequence: %w", prefix, year, err)
	}
	return seq.LastSequence, nil
}
