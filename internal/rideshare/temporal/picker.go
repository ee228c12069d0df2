package temporal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Mode string

const (
	ModeDate Mode = "date"
	ModeTime Mode = "time"
)

// ErrPickCancelled is returned when the user dismisses a picker.
var ErrPickCancelled = errors.New("pick cancelled")

// Picker asks the user for a date or a time starting from initial.
type Picker interface {
	Pick(ctx context.Context, mode Mode, initial time.Time) (time.Time, error)
}

// PickDateTime asks for the date and then the time and combines both. If
// either step is cancelled the whole pick is, and nothing should be committed.
func PickDateTime(ctx context.Context, picker Picker, initial time.Time) (time.Time, error) {
	datePart, err := picker.Pick(ctx, ModeDate, initial)
	if err != nil {
		return time.Time{}, fmt.Errorf("pick date: %w", err)
	}
	timePart, err := picker.Pick(ctx, ModeTime, Combine(datePart, initial))
	if err != nil {
		return time.Time{}, fmt.Errorf("pick time: %w", err)
	}
	return Combine(datePart, timePart), nil
}
