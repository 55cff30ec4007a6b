package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/types"
)

type ReadyPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plan *types.ReadyPlan) (*types.ReadyPlan, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ReadyPlan, error)
	CountRecentWithInvitee(ctx context.Context, tx *gorm.DB, userID, inviteeID uuid.UUID, since time.Time) (int, error)
	ListVenueNamesByCity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, city string) ([]string, error)
}

type readyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadyPlanRepo(db *gorm.DB, baseLog *logger.Logger) ReadyPlanRepo {
	return &readyPlanRepo{db: db, log: baseLog.With("repo", "ReadyPlanRepo")}
}

func (rr *readyPlanRepo) Create(ctx context.Context, tx *gorm.DB, plan *types.ReadyPlan) (*types.ReadyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if plan == nil {
		return nil, fmt.Errorf("no plan given")
	}
	if err := transaction.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (rr *readyPlanRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ReadyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.ReadyPlan
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountRecentWithInvitee counts plans the user created with the invitee
// since the cutoff. invitee_ids is a jsonb array of id strings.
func (rr *readyPlanRepo) CountRecentWithInvitee(ctx context.Context, tx *gorm.DB, userID, inviteeID uuid.UUID, since time.Time) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ReadyPlan{}).
		Where("user_id = ? AND created_at >= ? AND invitee_ids @> ?", userID, since, fmt.Sprintf(`["%s"]`, inviteeID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (rr *readyPlanRepo) ListVenueNamesByCity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, city string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var names []string
	if err := transaction.WithContext(ctx).
		Model(&types.ReadyPlan{}).
		Where("user_id = ? AND LOWER(city) = LOWER(?)", userID, city).
		Pluck("selected_venue->>'name'", &names).Error; err != nil {
		return nil, err
	}

	out := names[:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}
