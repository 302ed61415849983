package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limetric/timelog/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's info
	Update(ctx context.Context, user *entity.User) error
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type ActivitiesRepositoryI interface {
	// Inserts a new activity row, returns the generated id
	Create(ctx context.Context, activity *entity.Activity) (int64, error)
	// Searches activity with given id
	GetByID(ctx context.Context, id int64) (*entity.Activity, error)
	// Lists activities of user for one calendar date
	GetByUserAndDate(ctx context.Context, uid uuid.UUID, date time.Time) ([]entity.Activity, error)
	// Lists activities of user for an inclusive date range
	GetByUserAndDateRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.Activity, error)
	// Sums stored durations for (user, date), skipping excludeID.
	// Pass 0 as excludeID for creates
	SumByUserAndDate(ctx context.Context, uid uuid.UUID, date time.Time, excludeID int64) (int, error)
	// Updates activity by ID (ID in activity is necessary)
	Update(ctx context.Context, activity *entity.Activity) error
	// Deletes activity with id
	Delete(ctx context.Context, id int64) error
}

type GoalsRepositoryI interface {
	// Inserts a goal or updates the target of the existing goal for
	// the same (user, category). Returns the goal id
	Upsert(ctx context.Context, goal *entity.Goal) (int64, error)
	// Searches goal with given id
	GetByID(ctx context.Context, id int64) (*entity.Goal, error)
	// Lists goals owned by user, oldest first
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.Goal, error)
	// Deletes goal with id
	Delete(ctx context.Context, id int64) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
