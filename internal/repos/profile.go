package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/types"
)

type ProfileRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) error
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*types.Profile, error)
	IncrementXP(ctx context.Context, tx *gorm.DB, userID string, amount int) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	repoLog := baseLog.With("repo", "ProfileRepo")
	return &profileRepo{db: db, log: repoLog}
}

// Upsert is keyed on the identity id and leaves existing rows untouched, so
// replayed provider events never reset an accrued XP counter.
func (pr *profileRepo) Upsert(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(profiles) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&profiles).Error
}

func (pr *profileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Profile

	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// IncrementXP adds amount to the user's XP counter in a single statement.
// A missing row is created with the amount as its starting balance.
func (pr *profileRepo) IncrementXP(ctx context.Context, tx *gorm.DB, userID string, amount int) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	profile := types.Profile{ID: userID, XPPoints: amount}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"xp_points": gorm.Expr("profile.xp_points + excluded.xp_points"),
			}),
		}).
		Create(&profile).Error
}
