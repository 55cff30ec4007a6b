package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/types"
)

type ConnectionRepo interface {
	ListAcceptedUserIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
}

type connectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConnectionRepo(db *gorm.DB, baseLog *logger.Logger) ConnectionRepo {
	return &connectionRepo{db: db, log: baseLog.With("repo", "ConnectionRepo")}
}

// ListAcceptedUserIDs returns the ids on the far side of every accepted
// edge touching the user, regardless of who initiated.
func (cr *connectionRepo) ListAcceptedUserIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var rows []types.UserConnection
	if err := transaction.WithContext(ctx).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, types.ConnectionStatusAccepted).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if row.RequesterID == userID {
			ids = append(ids, row.AddresseeID)
		} else {
			ids = append(ids, row.RequesterID)
		}
	}
	return ids, nil
}
