package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Profile{}, &types.DomainScore{}, &types.TaskLog{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestProfileRepoUpsertIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepo(db, newTestLogger(t))
	ctx := context.Background()

	first := &types.Profile{ID: "user_1", FullName: "Ada Lovelace", XPPoints: 0}
	if err := repo.Upsert(ctx, nil, []*types.Profile{first}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Accrue some XP, then replay the provisioning upsert.
	if err := repo.IncrementXP(ctx, nil, "user_1", 40); err != nil {
		t.Fatalf("increment xp: %v", err)
	}
	replay := &types.Profile{ID: "user_1", FullName: "Ada Lovelace", XPPoints: 0}
	if err := repo.Upsert(ctx, nil, []*types.Profile{replay}); err != nil {
		t.Fatalf("replayed upsert: %v", err)
	}

	var count int64
	if err := db.Model(&types.Profile{}).Where("id = ?", "user_1").Count(&count).Error; err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if count != 1 {
		t.Fatalf("profile rows: want=1 got=%d", count)
	}

	got, err := repo.GetByIDs(ctx, nil, []string{"user_1"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("profiles returned: want=1 got=%d", len(got))
	}
	if got[0].XPPoints != 40 {
		t.Fatalf("replayed upsert must not reset xp: want=40 got=%d", got[0].XPPoints)
	}
}

func TestProfileRepoIncrementXPCreatesMissingRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepo(db, newTestLogger(t))
	ctx := context.Background()

	if err := repo.IncrementXP(ctx, nil, "user_new", 25); err != nil {
		t.Fatalf("increment xp: %v", err)
	}
	if err := repo.IncrementXP(ctx, nil, "user_new", 15); err != nil {
		t.Fatalf("second increment xp: %v", err)
	}

	got, err := repo.GetByIDs(ctx, nil, []string{"user_new"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("profiles returned: want=1 got=%d", len(got))
	}
	if got[0].XPPoints != 40 {
		t.Fatalf("xp after two increments: want=40 got=%d", got[0].XPPoints)
	}
}

func TestDomainScoreRepoUpsertKeepsExistingScore(t *testing.T) {
	db := newTestDB(t)
	repo := NewDomainScoreRepo(db, newTestLogger(t))
	ctx := context.Background()

	seed := []*types.DomainScore{
		{UserID: "user_1", Domain: types.DomainHealth, Score: 0},
		{UserID: "user_1", Domain: types.DomainWealth, Score: 0},
	}
	if err := repo.Upsert(ctx, nil, seed); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}
	if err := repo.IncrementScore(ctx, nil, "user_1", types.DomainHealth, 10); err != nil {
		t.Fatalf("increment score: %v", err)
	}

	// Replaying provisioning must neither duplicate rows nor zero the score.
	replay := []*types.DomainScore{
		{UserID: "user_1", Domain: types.DomainHealth, Score: 0},
		{UserID: "user_1", Domain: types.DomainWealth, Score: 0},
	}
	if err := repo.Upsert(ctx, nil, replay); err != nil {
		t.Fatalf("replayed upsert: %v", err)
	}

	got, err := repo.GetByUserID(ctx, nil, "user_1")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("score rows: want=2 got=%d", len(got))
	}
	byDomain := map[string]int{}
	for _, s := range got {
		byDomain[s.Domain] = s.Score
	}
	if byDomain[types.DomainHealth] != 10 {
		t.Fatalf("health score after replay: want=10 got=%d", byDomain[types.DomainHealth])
	}
	if byDomain[types.DomainWealth] != 0 {
		t.Fatalf("wealth score: want=0 got=%d", byDomain[types.DomainWealth])
	}
}

func TestDomainScoreRepoIncrementCreatesMissingPair(t *testing.T) {
	db := newTestDB(t)
	repo := NewDomainScoreRepo(db, newTestLogger(t))
	ctx := context.Background()

	if err := repo.IncrementScore(ctx, nil, "user_1", types.DomainCareer, 10); err != nil {
		t.Fatalf("increment score: %v", err)
	}
	if err := repo.IncrementScore(ctx, nil, "user_1", types.DomainCareer, 10); err != nil {
		t.Fatalf("second increment score: %v", err)
	}

	got, err := repo.GetByUserID(ctx, nil, "user_1")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("score rows: want=1 got=%d", len(got))
	}
	if got[0].Score != 20 {
		t.Fatalf("career score: want=20 got=%d", got[0].Score)
	}
}

func TestTaskLogRepoRecentWindowOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskLogRepo(db, newTestLogger(t))
	ctx := context.Background()

	base := time.Now().Add(-24 * time.Hour)
	var logs []*types.TaskLog
	for i := 0; i < 12; i++ {
		logs = append(logs, &types.TaskLog{
			UserID:      "user_1",
			Domain:      types.DomainHealth,
			TaskText:    fmt.Sprintf("task %d", i),
			XPAwarded:   10,
			CompletedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	if _, err := repo.Create(ctx, nil, logs); err != nil {
		t.Fatalf("create logs: %v", err)
	}

	got, err := repo.GetRecentByUserID(ctx, nil, "user_1", 10)
	if err != nil {
		t.Fatalf("GetRecentByUserID: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("window size: want=10 got=%d", len(got))
	}
	if got[0].TaskText != "task 11" {
		t.Fatalf("newest first: want=%q got=%q", "task 11", got[0].TaskText)
	}
	for i := 1; i < len(got); i++ {
		if got[i].CompletedAt.After(got[i-1].CompletedAt) {
			t.Fatalf("history not in descending order at index %d", i)
		}
	}
}

func TestTaskLogRepoScopedToUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskLogRepo(db, newTestLogger(t))
	ctx := context.Background()

	logs := []*types.TaskLog{
		{UserID: "user_a", Domain: types.DomainHealth, TaskText: "mine", CompletedAt: time.Now()},
		{UserID: "user_b", Domain: types.DomainHealth, TaskText: "not mine", CompletedAt: time.Now()},
	}
	if _, err := repo.Create(ctx, nil, logs); err != nil {
		t.Fatalf("create logs: %v", err)
	}

	got, err := repo.GetRecentByUserID(ctx, nil, "user_a", 10)
	if err != nil {
		t.Fatalf("GetRecentByUserID: %v", err)
	}
	if len(got) != 1 || got[0].TaskText != "mine" {
		t.Fatalf("history leaked across users: got=%+v", got)
	}
}
