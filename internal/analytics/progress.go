package analytics

import (
	"strconv"

	"github.com/limetric/timelog/pkg/entity"
)

// Goal completion thresholds, in percent.
const (
	completeThreshold     = 100
	nearCompleteThreshold = 80
)

// GoalProgress compares one day's logged minutes against a daily goal.
// Percentage is kept uncapped; capping at 100 is a display concern.
type GoalProgress struct {
	GoalID           int64           `json:"id"`
	Category         entity.Category `json:"category"`
	TargetMinutes    int             `json:"target_minutes"`
	CurrentMinutes   int             `json:"current_minutes"`
	Percentage       int             `json:"percentage"`
	RemainingMinutes int             `json:"remaining_minutes"`
	Status           string          `json:"status"`
}

// ComputeProgress builds one GoalProgress per goal, preserving goal
// order. A goal whose category has no activity that day reports zero
// current minutes.
func ComputeProgress(goals []entity.Goal, dayActivities []entity.Activity) []GoalProgress {
	totals := CategoryTotals(dayActivities)
	progress := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		current := totals[g.Category]
		pct := roundedPercent(current, g.TargetMinutes)
		remaining := g.TargetMinutes - current
		if remaining < 0 {
			remaining = 0
		}
		progress = append(progress, GoalProgress{
			GoalID:           g.ID,
			Category:         g.Category,
			TargetMinutes:    g.TargetMinutes,
			CurrentMinutes:   current,
			Percentage:       pct,
			RemainingMinutes: remaining,
			Status:           statusFor(pct),
		})
	}
	return progress
}

// roundedPercent is current/target as a percentage, rounded half up,
// computed in integer arithmetic. Target is at least 1 by the goal
// write invariant.
func roundedPercent(current, target int) int {
	return (current*200 + target) / (2 * target)
}

func statusFor(pct int) string {
	switch {
	case pct >= completeThreshold:
		return "Complete"
	case pct >= nearCompleteThreshold:
		return "Near complete"
	default:
		return strconv.Itoa(pct) + "%"
	}
}
