package service

import (
	"math"
	"strings"

	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
)

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseRequestDate(raw, field string) (calendar.Date, error) {
	date, err := calendar.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return calendar.Date{}, appErrors.Clone(appErrors.ErrValidation, field+" must use YYYY-MM-DD")
	}
	return date, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
