package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limetric/timelog/internal/analytics"
	"github.com/limetric/timelog/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type ActivityWriteRequest struct {
	Name         string
	Category     entity.Category
	Duration     int
	ActivityDate time.Time
}

type GoalWriteRequest struct {
	Category      entity.Category
	TargetMinutes int
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type ActivitiesServiceI interface {
	// Validates the write (field rules plus the 24h day invariant) and persists it
	CreateActivity(ctx context.Context, uid uuid.UUID, req *ActivityWriteRequest) (*entity.Activity, error)
	// Validates and applies the edit. Date moves revalidate the destination day
	UpdateActivity(ctx context.Context, id int64, uid uuid.UUID, req *ActivityWriteRequest) (*entity.Activity, error)
	DeleteActivity(ctx context.Context, id int64, uid uuid.UUID) error
	GetByDate(ctx context.Context, uid uuid.UUID, date time.Time) ([]entity.Activity, error)
	GetByRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.Activity, error)
}

type GoalsServiceI interface {
	ListGoals(ctx context.Context, uid uuid.UUID) ([]entity.Goal, error)
	// Creates the goal or replaces the target of the existing one for the category
	UpsertGoal(ctx context.Context, uid uuid.UUID, req *GoalWriteRequest) (*entity.Goal, error)
	DeleteGoal(ctx context.Context, id int64, uid uuid.UUID) error
	// Joins goals with the day's activities into per-category progress
	GoalProgress(ctx context.Context, uid uuid.UUID, date time.Time) ([]analytics.GoalProgress, error)
}

type StatsServiceI interface {
	DailySummary(ctx context.Context, uid uuid.UUID, date time.Time) (*DailySummary, error)
	WeeklySummary(ctx context.Context, uid uuid.UUID, anyDay time.Time) (*WeeklySummary, error)
	MonthlySummary(ctx context.Context, uid uuid.UUID, year int, month time.Month) (*MonthlySummary, error)
	RangeSummary(ctx context.Context, uid uuid.UUID, from, to time.Time) (*RangeSummary, error)
}
