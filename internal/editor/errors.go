package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned for actions attempted while the workout is loading
	// or a submission is in flight.
	ErrBusy = errors.New("editor is busy")
	// ErrClosed is returned for actions on a session that was submitted or
	// cancelled.
	ErrClosed          = errors.New("editor is closed")
	ErrLastExercise    = errors.New("cannot remove the last exercise")
	ErrLastSet         = errors.New("cannot remove the last set")
	ErrSessionNotFound = errors.New("editor session not found")
)

// SubmissionError is a failed create or update call. The draft is unchanged
// and the session is back to Idle.
type SubmissionError struct {
	Mode Mode
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s workout: %v", e.Mode.verb(), e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Message is the notice shown to the user.
func (e *SubmissionError) Message() string {
	return fmt.Sprintf("Failed to %s workout. Please try again.", e.Mode.verb())
}

// LoadError is a failed fetch in the edit flow. The session is discarded.
type LoadError struct {
	WorkoutID string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load workout %s: %v", e.WorkoutID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Message() string {
	return "Failed to load workout. Please try again."
}
