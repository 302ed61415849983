package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/limetric/timelog/internal/analytics"
	errorvalues "github.com/limetric/timelog/internal/error_values"
	"github.com/limetric/timelog/internal/repository"
	"github.com/limetric/timelog/pkg/entity"
)

type GoalsService struct {
	goalsRepo      repository.GoalsRepositoryI
	activitiesRepo repository.ActivitiesRepositoryI
}

func NewGoalsService(goalsRepo repository.GoalsRepositoryI, activitiesRepo repository.ActivitiesRepositoryI) *GoalsService {
	if goalsRepo == nil || activitiesRepo == nil {
		log.Fatal("on goals service provided nil repos")
	}
	return &GoalsService{
		goalsRepo:      goalsRepo,
		activitiesRepo: activitiesRepo,
	}
}

func (gs *GoalsService) ListGoals(ctx context.Context, uid uuid.UUID) ([]entity.Goal, error) {
	goals, err := gs.goalsRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("goals repository error: " + err.Error())
	}
	return goals, nil
}

func (gs *GoalsService) UpsertGoal(ctx context.Context, uid uuid.UUID, req *GoalWriteRequest) (*entity.Goal, error) {
	if err := validateGoalWrite(req.Category, req.TargetMinutes); err != nil {
		return nil, err
	}
	g := entity.Goal{
		UserID:        uid,
		Category:      req.Category,
		TargetMinutes: req.TargetMinutes,
	}
	id, err := gs.goalsRepo.Upsert(ctx, &g)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("goals repository error: " + err.Error())
	}
	goal, err := gs.goalsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return nil, err
		}
		return nil, errors.New("goals repository error: " + err.Error())
	}
	return goal, nil
}

func (gs *GoalsService) DeleteGoal(ctx context.Context, id int64, uid uuid.UUID) error {
	goal, err := gs.goalsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return err
		}
		return errors.New("goals repository error: " + err.Error())
	}
	if goal.UserID != uid {
		return errorvalues.ErrWrongOwner
	}
	err = gs.goalsRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return err
		}
		return errors.New("goals repository error: " + err.Error())
	}
	return nil
}

func (gs *GoalsService) GoalProgress(ctx context.Context, uid uuid.UUID, date time.Time) ([]analytics.GoalProgress, error) {
	goals, err := gs.goalsRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("goals repository error: " + err.Error())
	}
	activities, err := gs.activitiesRepo.GetByUserAndDate(ctx, uid, analytics.DateOnly(date))
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	return analytics.ComputeProgress(goals, activities), nil
}
