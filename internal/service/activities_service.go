package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/limetric/timelog/internal/analytics"
	errorvalues "github.com/limetric/timelog/internal/error_values"
	"github.com/limetric/timelog/internal/repository"
	"github.com/limetric/timelog/pkg/entity"
	"github.com/limetric/timelog/pkg/timeunit"
)

type ActivitiesService struct {
	repo repository.ActivitiesRepositoryI
}

func NewActivitiesService(activitiesRepo repository.ActivitiesRepositoryI) *ActivitiesService {
	if activitiesRepo == nil {
		log.Fatal("provided nil activitiesRepo")
	}
	return &ActivitiesService{
		repo: activitiesRepo,
	}
}

func (as *ActivitiesService) CreateActivity(ctx context.Context, uid uuid.UUID, req *ActivityWriteRequest) (*entity.Activity, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateActivityWrite(name, req.Category, req.Duration); err != nil {
		return nil, err
	}
	date := analytics.DateOnly(req.ActivityDate)
	if err := as.checkDayOverflow(ctx, uid, date, req.Duration, 0); err != nil {
		return nil, err
	}
	a := entity.Activity{
		UserID:       uid,
		ActivityDate: date,
		Name:         name,
		Category:     req.Category,
		Duration:     req.Duration,
	}
	id, err := as.repo.Create(ctx, &a)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("activities repository error: " + err.Error())
	}
	activity, err := as.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return nil, err
		}
		return nil, errors.New("activities repository error: " + err.Error())
	}
	return activity, nil
}

func (as *ActivitiesService) UpdateActivity(ctx context.Context, id int64, uid uuid.UUID, req *ActivityWriteRequest) (*entity.Activity, error) {
	stored, err := as.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return nil, err
		}
		return nil, errors.New("activities repository error: " + err.Error())
	}
	if stored.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	name := strings.TrimSpace(req.Name)
	if err := validateActivityWrite(name, req.Category, req.Duration); err != nil {
		return nil, err
	}
	// The re-sum runs against the destination date and skips the row
	// being edited, so moving an activity to another day checks that
	// day's budget.
	date := analytics.DateOnly(req.ActivityDate)
	if err := as.checkDayOverflow(ctx, uid, date, req.Duration, id); err != nil {
		return nil, err
	}
	stored.ActivityDate = date
	stored.Name = name
	stored.Category = req.Category
	stored.Duration = req.Duration
	err = as.repo.Update(ctx, stored)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return nil, err
		}
		return nil, errors.New("activities repository error: " + err.Error())
	}
	activity, err := as.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return nil, err
		}
		return nil, errors.New("activities repository error: " + err.Error())
	}
	return activity, nil
}

func (as *ActivitiesService) DeleteActivity(ctx context.Context, id int64, uid uuid.UUID) error {
	activity, err := as.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return err
		}
		return errors.New("activities repository error: " + err.Error())
	}
	if activity.UserID != uid {
		return errorvalues.ErrWrongOwner
	}
	err = as.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityNotFound) {
			return err
		}
		return errors.New("activities repository error: " + err.Error())
	}
	return nil
}

func (as *ActivitiesService) GetByDate(ctx context.Context, uid uuid.UUID, date time.Time) ([]entity.Activity, error) {
	activities, err := as.repo.GetByUserAndDate(ctx, uid, analytics.DateOnly(date))
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	return activities, nil
}

func (as *ActivitiesService) GetByRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.Activity, error) {
	from, to = analytics.DateOnly(from), analytics.DateOnly(to)
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	activities, err := as.repo.GetByUserAndDateRange(ctx, uid, from, to)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	return activities, nil
}

// checkDayOverflow enforces the 1440-minute day budget: everything
// already stored for (uid, date) except excludeID plus the incoming
// duration must fit a calendar day. An exact fit passes.
func (as *ActivitiesService) checkDayOverflow(ctx context.Context, uid uuid.UUID, date time.Time, duration int, excludeID int64) error {
	sum, err := as.repo.SumByUserAndDate(ctx, uid, date, excludeID)
	if err != nil {
		return errors.New("activities repository error: " + err.Error())
	}
	if sum+duration > timeunit.MinutesPerDay {
		return errorvalues.ErrDayOverflow
	}
	return nil
}

// maxRangeDays caps range queries, matching the export/report limit of
// the web UI.
const maxRangeDays = 90

func validateRange(from, to time.Time) error {
	if from.After(to) {
		return errorvalues.ErrInvalidRange
	}
	if to.Sub(from) > time.Duration(maxRangeDays-1)*24*time.Hour {
		return errorvalues.ErrRangeTooWide
	}
	return nil
}
