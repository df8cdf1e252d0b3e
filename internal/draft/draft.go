// Package draft holds the in-memory model of a workout being composed or
// edited: a workout containing exercises, each containing sets. Numeric fields
// stay as text while editing and are only coerced to integers by ToWire.
package draft

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownField    = errors.New("unknown set field")
)

// Field names a textual field of a Set.
type Field string

const (
	FieldReps      Field = "reps"
	FieldWeightLbs Field = "weightLbs"
)

// DateLayout is the wire format of Workout.Date.
const DateLayout = "2006-01-02"

// Set is one row of reps and weight. LocalID is only for list identity and is
// never sent to the backend.
type Set struct {
	LocalID   string `json:"localId"`
	Reps      string `json:"reps"`
	WeightLbs string `json:"weightLbs"`
}

type Exercise struct {
	LocalID string `json:"localId"`
	Name    string `json:"name"`
	Sets    []Set  `json:"sets"`
}

// Workout is the draft root. Date is only set for drafts created by Blank.
type Workout struct {
	Name      string     `json:"name"`
	Notes     string     `json:"notes"`
	Date      string     `json:"date,omitempty"`
	Exercises []Exercise `json:"exercises"`

	ids IDSource
}

// Blank returns the draft for the create flow: today's UTC date and one
// empty exercise holding one empty set.
func Blank(now time.Time, ids IDSource) *Workout {
	w := &Workout{
		Date: now.UTC().Format(DateLayout),
		ids:  ids,
	}
	w.AddExercise()
	return w
}

// AddExercise appends an exercise with an empty name and one empty set and
// returns its index.
func (w *Workout) AddExercise() int {
	w.Exercises = append(w.Exercises, Exercise{
		LocalID: w.nextID(),
		Sets:    []Set{w.newSet()},
	})
	return len(w.Exercises) - 1
}

// RemoveExercise removes the exercise at i. It does not guard against removing
// the last exercise; callers that render a form enforce that.
func (w *Workout) RemoveExercise(i int) error {
	if err := w.checkExercise(i); err != nil {
		return err
	}
	w.Exercises = slices.Delete(w.Exercises, i, i+1)
	return nil
}

// UpdateExerciseName replaces the exercise name as typed. Trimming happens at
// validation.
func (w *Workout) UpdateExerciseName(i int, name string) error {
	if err := w.checkExercise(i); err != nil {
		return err
	}
	w.Exercises[i].Name = name
	return nil
}

// AddSet appends an empty set to exercise ei and returns the new set index.
func (w *Workout) AddSet(ei int) (int, error) {
	if err := w.checkExercise(ei); err != nil {
		return 0, err
	}
	ex := &w.Exercises[ei]
	ex.Sets = append(ex.Sets, w.newSet())
	return len(ex.Sets) - 1, nil
}

func (w *Workout) RemoveSet(ei, si int) error {
	if err := w.checkSet(ei, si); err != nil {
		return err
	}
	ex := &w.Exercises[ei]
	ex.Sets = slices.Delete(ex.Sets, si, si+1)
	return nil
}

// UpdateSet replaces the reps or weight text of one set.
func (w *Workout) UpdateSet(ei, si int, field Field, value string) error {
	if err := w.checkSet(ei, si); err != nil {
		return err
	}
	set := &w.Exercises[ei].Sets[si]
	switch field {
	case FieldReps:
		set.Reps = value
	case FieldWeightLbs:
		set.WeightLbs = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (w *Workout) SetName(name string) {
	w.Name = name
}

func (w *Workout) SetNotes(notes string) {
	w.Notes = notes
}

// Clone returns a deep copy sharing the same identifier source.
func (w *Workout) Clone() *Workout {
	c := *w
	c.Exercises = make([]Exercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		ex.Sets = slices.Clone(ex.Sets)
		c.Exercises[i] = ex
	}
	return &c
}

func (w *Workout) newSet() Set {
	return Set{LocalID: w.nextID()}
}

func (w *Workout) nextID() string {
	if w.ids == nil {
		w.ids = NewUUID
	}
	return w.ids()
}

func (w *Workout) checkExercise(i int) error {
	if i < 0 || i >= len(w.Exercises) {
		return fmt.Errorf("exercise %d: %w", i, ErrIndexOutOfRange)
	}
	return nil
}

func (w *Workout) checkSet(ei, si int) error {
	if err := w.checkExercise(ei); err != nil {
		return err
	}
	if si < 0 || si >= len(w.Exercises[ei].Sets) {
		return fmt.Errorf("exercise %d set %d: %w", ei, si, ErrIndexOutOfRange)
	}
	return nil
}
