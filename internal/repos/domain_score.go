package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/types"
)

type DomainScoreRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, scores []*types.DomainScore) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]*types.DomainScore, error)
	IncrementScore(ctx context.Context, tx *gorm.DB, userID, domain string, step int) error
}

type domainScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDomainScoreRepo(db *gorm.DB, baseLog *logger.Logger) DomainScoreRepo {
	repoLog := baseLog.With("repo", "DomainScoreRepo")
	return &domainScoreRepo{db: db, log: repoLog}
}

// Upsert is keyed on (user_id, domain) and never overwrites an existing
// score, so replayed provider events cannot zero a user's progress.
func (dr *domainScoreRepo) Upsert(ctx context.Context, tx *gorm.DB, scores []*types.DomainScore) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(scores) == 0 {
		return nil
	}

	for _, s := range scores {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "domain"}},
			DoNothing: true,
		}).
		Create(&scores).Error
}

func (dr *domainScoreRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]*types.DomainScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.DomainScore

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("domain ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// IncrementScore adds step to the (user, domain) score in a single
// statement, creating the row when the pair has never been seen.
func (dr *domainScoreRepo) IncrementScore(ctx context.Context, tx *gorm.DB, userID, domain string, step int) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	score := types.DomainScore{
		ID:     uuid.New(),
		UserID: userID,
		Domain: domain,
		Score:  step,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "domain"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"score": gorm.Expr("domain_score.score + excluded.score"),
			}),
		}).
		Create(&score).Error
}
