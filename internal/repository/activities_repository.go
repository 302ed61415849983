package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limetric/timelog/internal/error_values"
	"github.com/limetric/timelog/pkg/cleanup"
	"github.com/limetric/timelog/pkg/entity"
)

type ActivitiesRepository struct {
	conn PgConnection
}

func NewActivitiesRepo(cfg DBConfig) *ActivitiesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for activitiesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for activitiesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ActivitiesRepository{
		conn: pool,
	}
}

func NewActivitiesRepoWithConn(conn PgConnection) *ActivitiesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for activitiesRepo: " + err.Error())
	}
	return &ActivitiesRepository{
		conn: conn,
	}
}

func (ar *ActivitiesRepository) Create(ctx context.Context, activity *entity.Activity) (int64, error) {
	var id int64
	row := ar.conn.QueryRow(ctx,
		`INSERT INTO activities (user_id, activity_date, name, category, duration) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		activity.UserID,
		activity.ActivityDate,
		activity.Name,
		activity.Category,
		activity.Duration,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return 0, errorvalues.ErrUserNotFound
			}
		}
		return 0, errors.New("creating activity db error: " + err.Error())
	}
	return id, nil
}

func (ar *ActivitiesRepository) GetByID(ctx context.Context, id int64) (*entity.Activity, error) {
	var activity entity.Activity
	activity.ID = id
	row := ar.conn.QueryRow(ctx,
		`SELECT user_id, activity_date, name, category, duration, created_at, updated_at FROM activities WHERE id = $1;`, id)
	if err := row.Scan(&activity.UserID, &activity.ActivityDate, &activity.Name, &activity.Category, &activity.Duration, &activity.CreatedAt, &activity.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrActivityNotFound
		}
		return nil, errors.New("getting activity by id error: " + err.Error())
	}
	return &activity, nil
}

func (ar *ActivitiesRepository) GetByUserAndDate(ctx context.Context, uid uuid.UUID, date time.Time) ([]entity.Activity, error) {
	rows, err := ar.conn.Query(ctx,
		`SELECT id, user_id, activity_date, name, category, duration, created_at, updated_at
		FROM activities WHERE user_id = $1 AND activity_date = $2 ORDER BY created_at;`, uid, date)
	if err != nil {
		return nil, errors.New("getting activities by date error: " + err.Error())
	}
	defer rows.Close()
	return scanActivities(rows)
}

func (ar *ActivitiesRepository) GetByUserAndDateRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.Activity, error) {
	rows, err := ar.conn.Query(ctx,
		`SELECT id, user_id, activity_date, name, category, duration, created_at, updated_at
		FROM activities WHERE user_id = $1 AND activity_date >= $2 AND activity_date <= $3 ORDER BY activity_date, created_at;`,
		uid, from, to)
	if err != nil {
		return nil, errors.New("getting activities by range error: " + err.Error())
	}
	defer rows.Close()
	return scanActivities(rows)
}

func scanActivities(rows pgx.Rows) ([]entity.Activity, error) {
	activities := make([]entity.Activity, 0)
	for rows.Next() {
		a := entity.Activity{}
		err := rows.Scan(&a.ID, &a.UserID, &a.ActivityDate, &a.Name, &a.Category, &a.Duration, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling activity error: " + err.Error())
		}
		activities = append(activities, a)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return activities, nil
}

func (ar *ActivitiesRepository) SumByUserAndDate(ctx context.Context, uid uuid.UUID, date time.Time, excludeID int64) (int, error) {
	row := ar.conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(duration), 0) FROM activities WHERE user_id = $1 AND activity_date = $2 AND id <> $3;`,
		uid, date, excludeID)
	var sum int
	if err := row.Scan(&sum); err != nil {
		return 0, errors.New("summing day durations error: " + err.Error())
	}
	return sum, nil
}

func (ar *ActivitiesRepository) Update(ctx context.Context, activity *entity.Activity) error {
	ct, err := ar.conn.Exec(ctx,
		`UPDATE activities SET activity_date = $1, name = $2, category = $3, duration = $4, updated_at = NOW() WHERE id = $5;`,
		activity.ActivityDate, activity.Name, activity.Category, activity.Duration, activity.ID,
	)
	if err != nil {
		return errors.New("error updating activity: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrActivityNotFound
	}
	return nil
}

func (ar *ActivitiesRepository) Delete(ctx context.Context, id int64) error {
	ct, err := ar.conn.Exec(ctx, `DELETE FROM activities WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting activity: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrActivityNotFound
	}
	return nil
}
