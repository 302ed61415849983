// Package analytics holds the pure rollup logic shared by every stats
// view: daily and weekly bucketing, per-category sums and goal
// progress. Everything here works on already-fetched records and keeps
// minute totals as exact integers.
package analytics

import (
	"time"

	"github.com/limetric/timelog/pkg/entity"
)

// DailyBucket is the aggregated total for one calendar day.
type DailyBucket struct {
	Date         time.Time               `json:"date"`
	TotalMinutes int                     `json:"total_minutes"`
	PerCategory  map[entity.Category]int `json:"per_category"`
}

// WeekBucket sums a run of consecutive daily buckets. A run ends right
// before the configured week-start weekday, so ranges cut at month
// boundaries produce shorter leading and trailing groups.
type WeekBucket struct {
	StartDate    time.Time               `json:"start_date"`
	EndDate      time.Time               `json:"end_date"`
	TotalMinutes int                     `json:"total_minutes"`
	PerCategory  map[entity.Category]int `json:"per_category"`
}

// DateOnly truncates t to its calendar date in UTC. Bucketing keys on
// the date alone, never the wall-clock part.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BucketByDay returns one bucket per calendar day in [start, end]
// inclusive, in ascending date order. Days without activity get a zero
// total and an empty category map. Activities dated outside the range
// are ignored. Range validity (start <= end, span limits) is the
// caller's contract.
func BucketByDay(activities []entity.Activity, start, end time.Time) []DailyBucket {
	start = DateOnly(start)
	end = DateOnly(end)
	byDate := make(map[time.Time][]entity.Activity)
	for _, a := range activities {
		d := DateOnly(a.ActivityDate)
		if d.Before(start) || d.After(end) {
			continue
		}
		byDate[d] = append(byDate[d], a)
	}
	buckets := make([]DailyBucket, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		bucket := DailyBucket{
			Date:        d,
			PerCategory: make(map[entity.Category]int),
		}
		for _, a := range byDate[d] {
			bucket.TotalMinutes += a.Duration
			bucket.PerCategory[a.Category] += a.Duration
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// BucketByWeek groups daily buckets into week spans. A new span starts
// on every occurrence of weekStart (Sunday in the original views).
func BucketByWeek(days []DailyBucket, weekStart time.Weekday) []WeekBucket {
	weeks := make([]WeekBucket, 0)
	for _, day := range days {
		if len(weeks) == 0 || day.Date.Weekday() == weekStart {
			weeks = append(weeks, WeekBucket{
				StartDate:   day.Date,
				PerCategory: make(map[entity.Category]int),
			})
		}
		w := &weeks[len(weeks)-1]
		w.EndDate = day.Date
		w.TotalMinutes += day.TotalMinutes
		for c, m := range day.PerCategory {
			w.PerCategory[c] += m
		}
	}
	return weeks
}

// CategoryTotals sums durations grouped by category. Categories absent
// from the input do not appear in the result.
func CategoryTotals(activities []entity.Activity) map[entity.Category]int {
	totals := make(map[entity.Category]int)
	for _, a := range activities {
		totals[a.Category] += a.Duration
	}
	return totals
}

// MostProductiveDay picks the bucket with the largest total. Ties go to
// the earliest bucket. Reports false when no buckets are given.
func MostProductiveDay(days []DailyBucket) (DailyBucket, bool) {
	if len(days) == 0 {
		return DailyBucket{}, false
	}
	best := days[0]
	for _, day := range days[1:] {
		if day.TotalMinutes > best.TotalMinutes {
			best = day
		}
	}
	return best, true
}
