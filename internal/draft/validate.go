package draft

import (
	"fmt"
	"strings"
)

// Rule identifies which check rejected a draft.
type Rule int

const (
	RuleWorkoutName Rule = iota + 1
	RuleExercisesPresent
	RuleExerciseName
	RuleReps
	RuleWeight
)

func (r Rule) String() string {
	switch r {
	case RuleWorkoutName:
		return "workout_name"
	case RuleExercisesPresent:
		return "exercises_present"
	case RuleExerciseName:
		return "exercise_name"
	case RuleReps:
		return "reps"
	case RuleWeight:
		return "weight"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ValidationError is a local, pre-submission rejection. Message is meant to be
// shown to the user as is. Exercise and Set are -1 when the rule is not about a
// particular item.
type ValidationError struct {
	Rule     Rule
	Exercise int
	Set      int
	Message  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	msgWorkoutName   = "Please enter a workout name"
	msgNoExercises   = "Please add at least one exercise"
	msgExerciseName  = "Please enter a name for all exercises"
	msgInvalidSet    = "Please enter valid reps and weight for all sets"
	msgRequiredField = "Please fill out all required fields"
)

// Validate applies the edit-flow rules in order and returns the first failure
// as a *ValidationError, or nil:
//
//  1. workout name non-empty after trimming
//  2. at least one exercise
//  3. every exercise name non-empty after trimming
//  4. every set's reps parses to an integer > 0
//  5. every set's weight parses to an integer >= 0
func Validate(w *Workout, parse ParseFunc) error {
	if parse == nil {
		parse = ParseLenient
	}
	if strings.TrimSpace(w.Name) == "" {
		return &ValidationError{Rule: RuleWorkoutName, Exercise: -1, Set: -1, Message: msgWorkoutName}
	}
	if len(w.Exercises) == 0 {
		return &ValidationError{Rule: RuleExercisesPresent, Exercise: -1, Set: -1, Message: msgNoExercises}
	}
	for ei, ex := range w.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return &ValidationError{Rule: RuleExerciseName, Exercise: ei, Set: -1, Message: msgExerciseName}
		}
		for si, set := range ex.Sets {
			if reps, ok := parse(set.Reps); !ok || reps <= 0 {
				return &ValidationError{Rule: RuleReps, Exercise: ei, Set: si, Message: msgInvalidSet}
			}
			if weight, ok := parse(set.WeightLbs); !ok || weight < 0 {
				return &ValidationError{Rule: RuleWeight, Exercise: ei, Set: si, Message: msgInvalidSet}
			}
		}
	}
	return nil
}

// CheckRequired is the create-flow check: every required input must hold some
// text. Nothing is trimmed or parsed, so "abc" passes as reps and is sent as
// not-a-number.
func CheckRequired(w *Workout) error {
	if w.Name == "" {
		return &ValidationError{Rule: RuleWorkoutName, Exercise: -1, Set: -1, Message: msgRequiredField}
	}
	for ei, ex := range w.Exercises {
		if ex.Name == "" {
			return &ValidationError{Rule: RuleExerciseName, Exercise: ei, Set: -1, Message: msgRequiredField}
		}
		for si, set := range ex.Sets {
			if set.Reps == "" {
				return &ValidationError{Rule: RuleReps, Exercise: ei, Set: si, Message: msgRequiredField}
			}
			if set.WeightLbs == "" {
				return &ValidationError{Rule: RuleWeight, Exercise: ei, Set: si, Message: msgRequiredField}
			}
		}
	}
	return nil
}
