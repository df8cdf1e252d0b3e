package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// WorkoutRecord is a workout as returned by the backend API.
type WorkoutRecord struct {
	ID        RecordID         `json:"id,omitempty"`
	Name      string           `json:"name"`
	Notes     string           `json:"notes,omitempty"`
	Date      string           `json:"date,omitempty"`
	Exercises []ExerciseRecord `json:"exercises"`
}

// ExerciseRecord is one exercise inside a WorkoutRecord. ID may be absent.
type ExerciseRecord struct {
	ID   RecordID    `json:"id,omitempty"`
	Name string      `json:"name"`
	Sets []SetRecord `json:"sets"`
}

// SetRecord is one set inside an ExerciseRecord. ID may be absent.
type SetRecord struct {
	ID        RecordID `json:"id,omitempty"`
	Reps      float64  `json:"reps"`
	WeightLbs float64  `json:"weightLbs"`
}

// RecordID is a backend identifier. The backend is not consistent about
// whether ids are JSON strings or numbers, so both decode into the string form.
type RecordID string

func (id *RecordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// WireWorkout is the payload sent to createWorkout and updateWorkout.
// Date is only set on creation.
type WireWorkout struct {
	Name      string         `json:"name"`
	Notes     string         `json:"notes"`
	Date      string         `json:"date,omitempty"`
	Exercises []WireExercise `json:"exercises"`
}

type WireExercise struct {
	Name string    `json:"name"`
	Sets []WireSet `json:"sets"`
}

type WireSet struct {
	Reps      WireInt `json:"reps"`
	WeightLbs WireInt `json:"weightLbs"`
}

// WireInt is an integer that may be in the not-a-number state. An invalid
// WireInt encodes as JSON null.
type WireInt struct {
	Value int
	Valid bool
}

// Int returns a valid WireInt holding v.
func Int(v int) WireInt {
	return WireInt{Value: v, Valid: true}
}

func (n WireInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(n.Value), 10), nil
}

func (n *WireInt) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = WireInt{}
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Int(v)
	return nil
}

func (n WireInt) String() string {
	if !n.Valid {
		return "NaN"
	}
	return strconv.Itoa(n.Value)
}
