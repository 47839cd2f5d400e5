package services

import (
	"context"
	"fmt"
	"time"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/repos"
	"github.com/myifeai/myifeai/internal/types"
)

// Completion applies three independent store operations. There is no
// transaction around them: a failure aborts the remaining steps but leaves
// already-applied ones in place, and the error names the step that failed.
const (
	StepTaskLog     = "task_log"
	StepXPPoints    = "xp_points"
	StepDomainScore = "domain_score"
)

type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("completion step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type ProfileView struct {
	XPPoints int               `json:"xp_points"`
	Scores   []DomainScoreView `json:"scores"`
}

type DomainScoreView struct {
	Domain string `json:"domain"`
	Score  int    `json:"score"`
}

type ProgressService interface {
	CompleteTask(ctx context.Context, userID, domain string, xpPoints int, taskText string) error
	GetProfile(ctx context.Context, userID string) (*ProfileView, error)
}

type progressService struct {
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	scoreRepo   repos.DomainScoreRepo
	taskLogRepo repos.TaskLogRepo
	scoreStep   int
}

func NewProgressService(
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	scoreRepo repos.DomainScoreRepo,
	taskLogRepo repos.TaskLogRepo,
	scoreStep int,
) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	if scoreStep <= 0 {
		scoreStep = 10
	}
	return &progressService{
		log:         serviceLog,
		profileRepo: profileRepo,
		scoreRepo:   scoreRepo,
		taskLogRepo: taskLogRepo,
		scoreStep:   scoreStep,
	}
}

// CompleteTask awards the caller-supplied XP to the profile counter and a
// fixed step to the domain score, recording the completion first so the plan
// generator stops suggesting it.
func (ps *progressService) CompleteTask(ctx context.Context, userID, domain string, xpPoints int, taskText string) error {
	if taskText == "" {
		taskText = fmt.Sprintf("Completed a %s objective", domain)
	}

	entry := &types.TaskLog{
		UserID:      userID,
		Domain:      domain,
		TaskText:    taskText,
		XPAwarded:   xpPoints,
		CompletedAt: time.Now(),
	}
	if _, err := ps.taskLogRepo.Create(ctx, nil, []*types.TaskLog{entry}); err != nil {
		ps.log.Warn("Task log insert failed", "user_id", userID, "error", err)
		return &StepError{Step: StepTaskLog, Err: err}
	}

	if err := ps.profileRepo.IncrementXP(ctx, nil, userID, xpPoints); err != nil {
		ps.log.Warn("XP increment failed", "user_id", userID, "error", err)
		return &StepError{Step: StepXPPoints, Err: err}
	}

	if err := ps.scoreRepo.IncrementScore(ctx, nil, userID, domain, ps.scoreStep); err != nil {
		ps.log.Warn("Domain score increment failed", "user_id", userID, "domain", domain, "error", err)
		return &StepError{Step: StepDomainScore, Err: err}
	}

	return nil
}

// GetProfile tolerates a not-yet-provisioned user: no profile row means a
// zero-valued dashboard, not an error.
func (ps *progressService) GetProfile(ctx context.Context, userID string) (*ProfileView, error) {
	profiles, err := ps.profileRepo.GetByIDs(ctx, nil, []string{userID})
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	view := &ProfileView{XPPoints: 0, Scores: []DomainScoreView{}}
	if len(profiles) == 0 {
		return view, nil
	}
	view.XPPoints = profiles[0].XPPoints

	scores, err := ps.scoreRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch life scores: %w", err)
	}
	for _, s := range scores {
		view.Scores = append(view.Scores, DomainScoreView{Domain: s.Domain, Score: s.Score})
	}

	return view, nil
}
