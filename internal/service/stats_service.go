package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/limetric/timelog/internal/analytics"
	"github.com/limetric/timelog/internal/repository"
	"github.com/limetric/timelog/pkg/entity"
	"github.com/limetric/timelog/pkg/timeunit"
)

// weekStartDay anchors weekly views, matching the web UI's
// Sunday-first calendar.
const weekStartDay = time.Sunday

type DailySummary struct {
	Date             time.Time               `json:"date"`
	TotalMinutes     int                     `json:"total_minutes"`
	TotalFormatted   string                  `json:"total_formatted"`
	TotalHours       string                  `json:"total_hours"`
	PercentOfDay     string                  `json:"percent_of_day"`
	RemainingMinutes int                     `json:"remaining_minutes"`
	PerCategory      map[entity.Category]int `json:"per_category"`
	Activities       []entity.Activity       `json:"activities"`
}

type WeeklySummary struct {
	WeekStart       time.Time               `json:"week_start"`
	WeekEnd         time.Time               `json:"week_end"`
	Days            []analytics.DailyBucket `json:"days"`
	TotalMinutes    int                     `json:"total_minutes"`
	TotalFormatted  string                  `json:"total_formatted"`
	TotalHours      string                  `json:"total_hours"`
	AvgDailyMinutes int                     `json:"avg_daily_minutes"`
	AvgDailyHours   string                  `json:"avg_daily_hours"`
	PerCategory     map[entity.Category]int `json:"per_category"`
}

type MonthlySummary struct {
	MonthStart        time.Time               `json:"month_start"`
	MonthEnd          time.Time               `json:"month_end"`
	Days              []analytics.DailyBucket `json:"days"`
	Weeks             []analytics.WeekBucket  `json:"weeks"`
	TotalMinutes      int                     `json:"total_minutes"`
	TotalHours        string                  `json:"total_hours"`
	AvgDailyMinutes   int                     `json:"avg_daily_minutes"`
	AvgDailyHours     string                  `json:"avg_daily_hours"`
	PerCategory       map[entity.Category]int `json:"per_category"`
	MostProductiveDay *analytics.DailyBucket  `json:"most_productive_day,omitempty"`
}

type RangeSummary struct {
	From            time.Time               `json:"from"`
	To              time.Time               `json:"to"`
	Days            []analytics.DailyBucket `json:"days"`
	TotalMinutes    int                     `json:"total_minutes"`
	TotalHours      string                  `json:"total_hours"`
	AvgDailyMinutes int                     `json:"avg_daily_minutes"`
	AvgDailyHours   string                  `json:"avg_daily_hours"`
	PerCategory     map[entity.Category]int `json:"per_category"`
}

type StatsService struct {
	repo repository.ActivitiesRepositoryI
}

func NewStatsService(activitiesRepo repository.ActivitiesRepositoryI) *StatsService {
	if activitiesRepo == nil {
		log.Fatal("provided nil activitiesRepo")
	}
	return &StatsService{
		repo: activitiesRepo,
	}
}

func (ss *StatsService) DailySummary(ctx context.Context, uid uuid.UUID, date time.Time) (*DailySummary, error) {
	date = analytics.DateOnly(date)
	activities, err := ss.repo.GetByUserAndDate(ctx, uid, date)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	total := 0
	for _, a := range activities {
		total += a.Duration
	}
	return &DailySummary{
		Date:             date,
		TotalMinutes:     total,
		TotalFormatted:   timeunit.FormatMinutes(total),
		TotalHours:       timeunit.Hours(total),
		PercentOfDay:     timeunit.PercentOfDay(total),
		RemainingMinutes: timeunit.MinutesPerDay - total,
		PerCategory:      analytics.CategoryTotals(activities),
		Activities:       activities,
	}, nil
}

// WeeklySummary reports the Sunday-anchored week containing anyDay.
func (ss *StatsService) WeeklySummary(ctx context.Context, uid uuid.UUID, anyDay time.Time) (*WeeklySummary, error) {
	weekStart := startOfWeek(analytics.DateOnly(anyDay))
	weekEnd := weekStart.AddDate(0, 0, 6)
	activities, err := ss.repo.GetByUserAndDateRange(ctx, uid, weekStart, weekEnd)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	days := analytics.BucketByDay(activities, weekStart, weekEnd)
	total := 0
	for _, d := range days {
		total += d.TotalMinutes
	}
	avg := roundedAvg(total, len(days))
	return &WeeklySummary{
		WeekStart:       weekStart,
		WeekEnd:         weekEnd,
		Days:            days,
		TotalMinutes:    total,
		TotalFormatted:  timeunit.FormatMinutes(total),
		TotalHours:      timeunit.Hours(total),
		AvgDailyMinutes: avg,
		AvgDailyHours:   timeunit.Hours(avg),
		PerCategory:     analytics.CategoryTotals(activities),
	}, nil
}

func (ss *StatsService) MonthlySummary(ctx context.Context, uid uuid.UUID, year int, month time.Month) (*MonthlySummary, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	activities, err := ss.repo.GetByUserAndDateRange(ctx, uid, monthStart, monthEnd)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	days := analytics.BucketByDay(activities, monthStart, monthEnd)
	total := 0
	activeDays := 0
	for _, d := range days {
		total += d.TotalMinutes
		if d.TotalMinutes > 0 {
			activeDays++
		}
	}
	// The monthly view averages over days that have activity, not the
	// calendar length of the month.
	avg := roundedAvg(total, activeDays)
	summary := MonthlySummary{
		MonthStart:      monthStart,
		MonthEnd:        monthEnd,
		Days:            days,
		Weeks:           analytics.BucketByWeek(days, weekStartDay),
		TotalMinutes:    total,
		TotalHours:      timeunit.Hours(total),
		AvgDailyMinutes: avg,
		AvgDailyHours:   timeunit.Hours(avg),
		PerCategory:     analytics.CategoryTotals(activities),
	}
	if best, ok := analytics.MostProductiveDay(days); ok && best.TotalMinutes > 0 {
		summary.MostProductiveDay = &best
	}
	return &summary, nil
}

func (ss *StatsService) RangeSummary(ctx context.Context, uid uuid.UUID, from, to time.Time) (*RangeSummary, error) {
	from, to = analytics.DateOnly(from), analytics.DateOnly(to)
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	activities, err := ss.repo.GetByUserAndDateRange(ctx, uid, from, to)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	days := analytics.BucketByDay(activities, from, to)
	total := 0
	for _, d := range days {
		total += d.TotalMinutes
	}
	avg := roundedAvg(total, len(days))
	return &RangeSummary{
		From:            from,
		To:              to,
		Days:            days,
		TotalMinutes:    total,
		TotalHours:      timeunit.Hours(total),
		AvgDailyMinutes: avg,
		AvgDailyHours:   timeunit.Hours(avg),
		PerCategory:     analytics.CategoryTotals(activities),
	}, nil
}

// roundedAvg divides total minutes across days, rounding half up.
// Zero days yields zero.
func roundedAvg(total, days int) int {
	if days == 0 {
		return 0
	}
	return (total*2 + days) / (2 * days)
}

func startOfWeek(day time.Time) time.Time {
	offset := int(day.Weekday() - weekStartDay)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}
