package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/myifeai/myifeai/internal/clients/groq"
	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/repos"
	"github.com/myifeai/myifeai/internal/types"
)

// Store reads and model calls fail differently: the first means we could not
// load the user's state, the second that the model gave us nothing usable.
var (
	ErrScoreFetch = errors.New("life score fetch failed")
	ErrGeneration = errors.New("plan generation failed")
)

const historyWindow = 10

type PlanService interface {
	GenerateDailyPlan(ctx context.Context, userID string) (*types.DailyPlan, error)
}

type planService struct {
	log         *logger.Logger
	scoreRepo   repos.DomainScoreRepo
	taskLogRepo repos.TaskLogRepo
	ai          groq.Client
}

func NewPlanService(
	log *logger.Logger,
	scoreRepo repos.DomainScoreRepo,
	taskLogRepo repos.TaskLogRepo,
	ai groq.Client,
) PlanService {
	serviceLog := log.With("service", "PlanService")
	return &planService{
		log:         serviceLog,
		scoreRepo:   scoreRepo,
		taskLogRepo: taskLogRepo,
		ai:          ai,
	}
}

func (ps *planService) GenerateDailyPlan(ctx context.Context, userID string) (*types.DailyPlan, error) {
	scores, err := ps.scoreRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		ps.log.Warn("Failed to fetch life scores", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrScoreFetch, err)
	}

	// History is conditioning context only. A read failure here degrades the
	// plan instead of blocking it.
	history, hErr := ps.taskLogRepo.GetRecentByUserID(ctx, nil, userID, historyWindow)
	if hErr != nil {
		ps.log.Warn("Failed to fetch task history, generating without it", "user_id", userID, "error", hErr)
		history = nil
	}

	system := buildCoachPrompt(scores, history)
	user := "Analyze my status and provide today's tactical spread across my life domains."

	raw, err := ps.ai.GenerateJSON(ctx, system, user, 0.8)
	if err != nil {
		ps.log.Warn("Model call failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var plan types.DailyPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		ps.log.Warn("Model returned unparsable JSON", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: unparsable model output: %v", ErrGeneration, err)
	}
	if len(plan.Tasks) == 0 {
		ps.log.Warn("Model returned no tasks", "user_id", userID)
		return nil, fmt.Errorf("%w: model output has no tasks", ErrGeneration)
	}

	return &plan, nil
}

func buildCoachPrompt(scores []*types.DomainScore, history []*types.TaskLog) string {
	scoreSummary := "No data"
	if len(scores) > 0 {
		parts := make([]string, 0, len(scores))
		for _, s := range scores {
			parts = append(parts, fmt.Sprintf("%s: %d", s.Domain, s.Score))
		}
		scoreSummary = strings.Join(parts, ", ")
	}

	historySummary := "No previous tasks"
	if len(history) > 0 {
		parts := make([]string, 0, len(history))
		for _, h := range history {
			parts = append(parts, fmt.Sprintf("[%s] %s", h.Domain, h.TaskText))
		}
		historySummary = strings.Join(parts, ", ")
	}

	return fmt.Sprintf(`You are MYFE AI, an elite high-performance life coach and "Life CEO" advisor.

USER DATA:
Current Scores: %s
Recent History (Do NOT repeat these): %s

AVAILABLE DOMAINS: %s.

OBJECTIVE:
Suggest 3 ultra-specific tactical objectives for today.

STRICT RULES FOR VARIETY AND LEVELING:
1. DOMAIN DIVERSITY: Pick 3 DIFFERENT domains. Never suggest two tasks for the same domain in one plan.
2. ROTATION: Prioritize domains that are NOT in the recent history to keep the user's life balanced.
3. ACTIONABLE: Tasks must be completable in 15-45 minutes.
4. XP: Each task's xp must be a number between 10 and 50.

STRICT OUTPUT FORMAT:
Return ONLY a JSON object:
{
  "briefing": "A 1-sentence executive summary focused on balance and high performance.",
  "tasks": [
    { "domain": "Domain Name", "task": "The specific high-leverage action", "xp": number }
  ]
}`, scoreSummary, historySummary, strings.Join(types.LifeDomains(), ", "))
}
