package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/types"
)

type AvailabilityRepo interface {
	ListUpcoming(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) ([]types.AvailabilityBlock, error)
}

type availabilityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAvailabilityRepo(db *gorm.DB, baseLog *logger.Logger) AvailabilityRepo {
	return &availabilityRepo{db: db, log: baseLog.With("repo", "AvailabilityRepo")}
}

// ListUpcoming returns the user's free blocks that have not fully elapsed,
// ordered ascending by start.
func (ar *availabilityRepo) ListUpcoming(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) ([]types.AvailabilityBlock, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []types.AvailabilityBlock
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND end_time >= ?", userID, now).
		Order("start_time ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
