package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrActivityNotFound = errors.New("activity doesn't exist")
	ErrGoalNotFound     = errors.New("goal doesn't exist")
	ErrWrongOwner       = errors.New("record belongs to another user")

	ErrEmptyName          = errors.New("activity name is empty")
	ErrInvalidCategory    = errors.New("category is not one of the allowed values")
	ErrDurationOutOfRange = errors.New("duration must be between 1 and 1440 minutes")
	ErrDayOverflow        = errors.New("total logged time for the day would exceed 24 hours")
	ErrNoCategorySelected = errors.New("no category selected for goal")
	ErrTargetOutOfRange   = errors.New("target must be between 1 and 1440 minutes")

	ErrInvalidRange = errors.New("range start must not be after range end")
	ErrRangeTooWide = errors.New("range must not span more than 90 days")
)
