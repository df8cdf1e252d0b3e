package draft

import (
	"strconv"

	"github.com/claude/setlog/internal/models"
)

// WireOptions controls ToWire.
type WireOptions struct {
	// IncludeDate sends Workout.Date. Set for creation only.
	IncludeDate bool
	// Parse coerces reps and weight. Defaults to ParseLenient.
	Parse ParseFunc
}

// ToWire serializes the draft for createWorkout/updateWorkout. Local
// identifiers are dropped. Values the parser rejects are sent as not-a-number
// rather than sanitized.
func (w *Workout) ToWire(opts WireOptions) models.WireWorkout {
	parse := opts.Parse
	if parse == nil {
		parse = ParseLenient
	}

	out := models.WireWorkout{
		Name:      w.Name,
		Notes:     w.Notes,
		Exercises: make([]models.WireExercise, 0, len(w.Exercises)),
	}
	if opts.IncludeDate {
		out.Date = w.Date
	}

	for _, ex := range w.Exercises {
		wex := models.WireExercise{
			Name: ex.Name,
			Sets: make([]models.WireSet, 0, len(ex.Sets)),
		}
		for _, set := range ex.Sets {
			wex.Sets = append(wex.Sets, models.WireSet{
				Reps:      wireInt(parse, set.Reps),
				WeightLbs: wireInt(parse, set.WeightLbs),
			})
		}
		out.Exercises = append(out.Exercises, wex)
	}
	return out
}

func wireInt(parse ParseFunc, s string) models.WireInt {
	n, ok := parse(s)
	if !ok {
		return models.WireInt{}
	}
	return models.Int(n)
}

// FromWire hydrates a draft for the edit flow. Record ids are kept as local
// identifiers when present and unique among their siblings; otherwise a fresh
// identifier is assigned. Numbers are converted back to their text form. The
// result has no Date: updates do not resend it.
func FromWire(rec *models.WorkoutRecord, ids IDSource) *Workout {
	w := &Workout{
		Name:      rec.Name,
		Notes:     rec.Notes,
		Exercises: make([]Exercise, 0, len(rec.Exercises)),
		ids:       ids,
	}

	exIDs := make(map[string]bool, len(rec.Exercises))
	for _, rex := range rec.Exercises {
		ex := Exercise{
			LocalID: w.localID(rex.ID, exIDs),
			Name:    rex.Name,
			Sets:    make([]Set, 0, len(rex.Sets)),
		}
		setIDs := make(map[string]bool, len(rex.Sets))
		for _, rs := range rex.Sets {
			ex.Sets = append(ex.Sets, Set{
				LocalID:   w.localID(rs.ID, setIDs),
				Reps:      formatNumber(rs.Reps),
				WeightLbs: formatNumber(rs.WeightLbs),
			})
		}
		w.Exercises = append(w.Exercises, ex)
	}
	return w
}

func (w *Workout) localID(id models.RecordID, used map[string]bool) string {
	s := string(id)
	for s == "" || used[s] {
		s = w.nextID()
	}
	used[s] = true
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
