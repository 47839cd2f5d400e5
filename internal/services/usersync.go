package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/repos"
	"github.com/myifeai/myifeai/internal/types"
)

// UserSyncService mirrors newly created provider identities into local
// Profile and DomainScore rows.
type UserSyncService interface {
	SyncCreatedUser(ctx context.Context, userID, firstName, lastName string) error
}

type userSyncService struct {
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	scoreRepo   repos.DomainScoreRepo
}

func NewUserSyncService(
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	scoreRepo repos.DomainScoreRepo,
) UserSyncService {
	serviceLog := log.With("service", "UserSyncService")
	return &userSyncService{
		log:         serviceLog,
		profileRepo: profileRepo,
		scoreRepo:   scoreRepo,
	}
}

// SyncCreatedUser is idempotent: both upserts leave existing rows untouched,
// so the provider delivering the same event twice creates nothing new.
func (us *userSyncService) SyncCreatedUser(ctx context.Context, userID, firstName, lastName string) error {
	if userID == "" {
		return fmt.Errorf("missing user id")
	}

	fullName := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if fullName == "" {
		fullName = "New User"
	}

	profile := &types.Profile{
		ID:       userID,
		FullName: fullName,
		XPPoints: 0,
	}
	if err := us.profileRepo.Upsert(ctx, nil, []*types.Profile{profile}); err != nil {
		us.log.Warn("Profile upsert failed", "user_id", userID, "error", err)
		return fmt.Errorf("upsert profile: %w", err)
	}

	scores := make([]*types.DomainScore, 0, len(types.LifeDomains()))
	for _, domain := range types.LifeDomains() {
		scores = append(scores, &types.DomainScore{
			UserID: userID,
			Domain: domain,
			Score:  0,
		})
	}
	if err := us.scoreRepo.Upsert(ctx, nil, scores); err != nil {
		us.log.Warn("Domain score init failed", "user_id", userID, "error", err)
		return fmt.Errorf("initialize life scores: %w", err)
	}

	us.log.Info("Synced provider identity", "user_id", userID)
	return nil
}
