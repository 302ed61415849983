package service

import (
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/limetric/timelog/internal/error_values"
	"github.com/limetric/timelog/pkg/entity"
	"github.com/limetric/timelog/pkg/timeunit"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("alphanum_underscore", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for i, char := range value {
				// Cannot be started with a digit or underscore
				if i == 0 && (unicode.IsDigit(char) || char == '_') {
					return false
				}
				// Digits, letters or underscore
				if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' {
					return false
				}
			}
			return true
		})
	})
}

// validateActivityWrite maps field failures to the write error
// taxonomy. Name is expected to be trimmed by the caller.
func validateActivityWrite(name string, category entity.Category, duration int) error {
	if name == "" {
		return errorvalues.ErrEmptyName
	}
	if !category.Valid() {
		return errorvalues.ErrInvalidCategory
	}
	if duration < 1 || duration > timeunit.MinutesPerDay {
		return errorvalues.ErrDurationOutOfRange
	}
	return nil
}

func validateGoalWrite(category entity.Category, targetMinutes int) error {
	if category == "" {
		return errorvalues.ErrNoCategorySelected
	}
	if !category.Valid() {
		return errorvalues.ErrInvalidCategory
	}
	if targetMinutes < 1 || targetMinutes > timeunit.MinutesPerDay {
		return errorvalues.ErrTargetOutOfRange
	}
	return nil
}
