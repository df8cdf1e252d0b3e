package draft

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"testing"

	"github.com/claude/setlog/internal/models"
	"pgregory.net/rapid"
)

func genText() *rapid.Generator[string] {
	return rapid.SampledFrom([]string{"", "0", "1", "10", "135", "-1", "10kg", " 7", "abc"})
}

// genWorkout draws a draft built only through the mutation API.
func genWorkout(t *rapid.T) *Workout {
	w := Blank(day, Counter("id-"))
	w.SetName(rapid.StringN(0, 12, -1).Draw(t, "name"))
	nEx := rapid.IntRange(0, 4).Draw(t, "extraExercises")
	for range nEx {
		w.AddExercise()
	}
	for ei := range w.Exercises {
		_ = w.UpdateExerciseName(ei, rapid.StringN(0, 8, -1).Draw(t, fmt.Sprintf("ex%d", ei)))
		nSets := rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("extraSets%d", ei))
		for range nSets {
			_, _ = w.AddSet(ei)
		}
		for si := range w.Exercises[ei].Sets {
			_ = w.UpdateSet(ei, si, FieldReps, genText().Draw(t, fmt.Sprintf("reps%d.%d", ei, si)))
			_ = w.UpdateSet(ei, si, FieldWeightLbs, genText().Draw(t, fmt.Sprintf("w%d.%d", ei, si)))
		}
	}
	return w
}

func stripIDs(w *Workout) []Exercise {
	out := make([]Exercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		ex.LocalID = ""
		ex.Sets = slices.Clone(ex.Sets)
		for j := range ex.Sets {
			ex.Sets[j].LocalID = ""
		}
		out[i] = ex
	}
	return out
}

// TestProperty_AddThenRemoveRestores verifies AddExercise followed by
// RemoveExercise at the new index leaves the exercise sequence unchanged.
func TestProperty_AddThenRemoveRestores(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := genWorkout(t)
		before := w.Clone()

		i := w.AddExercise()
		if err := w.RemoveExercise(i); err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(stripIDs(w), stripIDs(before)) {
			t.Fatalf("exercises changed:\n got  %v\n want %v", stripIDs(w), stripIDs(before))
		}
	})
}

// TestProperty_LocalIDsUniqueAmongSiblings verifies local identifiers never
// repeat inside one sibling sequence.
func TestProperty_LocalIDsUniqueAmongSiblings(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := genWorkout(t)
		exIDs := map[string]bool{}
		for _, ex := range w.Exercises {
			if exIDs[ex.LocalID] {
				t.Fatalf("duplicate exercise id %q", ex.LocalID)
			}
			exIDs[ex.LocalID] = true
			setIDs := map[string]bool{}
			for _, s := range ex.Sets {
				if setIDs[s.LocalID] {
					t.Fatalf("duplicate set id %q", s.LocalID)
				}
				setIDs[s.LocalID] = true
			}
		}
	})
}

// TestProperty_WireRoundTrip verifies ToWire(FromWire(record)) reproduces the
// record's integer reps and weights.
func TestProperty_WireRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rec := &models.WorkoutRecord{Name: "r"}
		nEx := rapid.IntRange(0, 4).Draw(t, "exercises")
		for i := range nEx {
			ex := models.ExerciseRecord{Name: "ex" + strconv.Itoa(i)}
			nSets := rapid.IntRange(0, 4).Draw(t, fmt.Sprintf("sets%d", i))
			for j := range nSets {
				ex.Sets = append(ex.Sets, models.SetRecord{
					Reps:      float64(rapid.IntRange(-5, 1000).Draw(t, fmt.Sprintf("reps%d.%d", i, j))),
					WeightLbs: float64(rapid.IntRange(-5, 2000).Draw(t, fmt.Sprintf("w%d.%d", i, j))),
				})
			}
			rec.Exercises = append(rec.Exercises, ex)
		}

		out := FromWire(rec, Counter("id-")).ToWire(WireOptions{})

		if len(out.Exercises) != len(rec.Exercises) {
			t.Fatalf("exercises = %d, want %d", len(out.Exercises), len(rec.Exercises))
		}
		for i, ex := range rec.Exercises {
			for j, s := range ex.Sets {
				got := out.Exercises[i].Sets[j]
				if got.Reps != models.Int(int(s.Reps)) || got.WeightLbs != models.Int(int(s.WeightLbs)) {
					t.Fatalf("set %d.%d = %v/%v, want %v/%v", i, j, got.Reps, got.WeightLbs, s.Reps, s.WeightLbs)
				}
			}
		}
	})
}

// TestProperty_EmptyNameAlwaysRejected verifies a blank workout name fails
// validation whatever the exercises hold.
func TestProperty_EmptyNameAlwaysRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := genWorkout(t)
		w.SetName(rapid.SampledFrom([]string{"", " ", "\t\n"}).Draw(t, "blank"))

		err := Validate(w, ParseLenient)
		verr, ok := err.(*ValidationError)
		if !ok || verr.Rule != RuleWorkoutName {
			t.Fatalf("Validate = %v, want workout name rule", err)
		}
	})
}
