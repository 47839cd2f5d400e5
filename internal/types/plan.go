package types

// DailyPlan is the transient value returned by plan generation. It is
// recomputed on every request and never persisted.
type DailyPlan struct {
	Briefing string     `json:"briefing,omitempty"`
	Tasks    []PlanTask `json:"tasks"`
}

type PlanTask struct {
	Domain string `json:"domain"`
	Task   string `json:"task"`
	XP     int    `json:"xp"`
}
