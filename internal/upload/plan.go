package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/claude/setlog/internal/draft"
	"github.com/claude/setlog/internal/editor"
	"gopkg.in/yaml.v3"
)

// Plan is a workout written by hand as YAML:
//
//	id: "42"          # optional; present means update workout 42
//	name: Leg Day
//	notes: felt strong
//	exercises:
//	  - name: Squat
//	    sets:
//	      - {reps: 10, weight: 135}
//	      - {reps: 8, weight: 155}
//
// Reps and weight are read as text, exactly as if typed into the form.
type Plan struct {
	// Key tells plans from the same file apart. Empty for single-plan files.
	Key string `yaml:"-"`

	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Notes     string         `yaml:"notes"`
	Exercises []PlanExercise `yaml:"exercises"`
}

type PlanExercise struct {
	Name string    `yaml:"name"`
	Sets []PlanSet `yaml:"sets"`
}

type PlanSet struct {
	Reps   string `yaml:"reps"`
	Weight string `yaml:"weight"`
}

var ErrEmptyPlan = errors.New("plan has no exercises")

// LoadPlan reads and decodes a plan file. Every exercise needs at least one
// set, the same shape the editor enforces.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	if len(p.Exercises) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyPlan)
	}
	for i, ex := range p.Exercises {
		if len(ex.Sets) == 0 {
			return nil, fmt.Errorf("%s: exercise %d (%s) has no sets", path, i, ex.Name)
		}
	}
	return &p, nil
}

// Hash fingerprints the plan's content, so a resubmission only happens when
// something in it changed.
func (p *Plan) Hash() (string, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Apply drives the session's form actions until its draft matches the plan.
// Rows are added or removed at the end; existing rows are overwritten in
// place, so an edited workout keeps its leading exercises' identities.
func (p *Plan) Apply(s *editor.Session) error {
	if err := s.SetName(p.Name); err != nil {
		return err
	}
	if err := s.SetNotes(p.Notes); err != nil {
		return err
	}

	d := s.Draft()
	if d == nil {
		return editor.ErrClosed
	}
	for n := len(d.Exercises); n < len(p.Exercises); n++ {
		if _, err := s.AddExercise(); err != nil {
			return err
		}
	}
	for n := len(d.Exercises); n > len(p.Exercises); n-- {
		if err := s.RemoveExercise(n - 1); err != nil {
			return err
		}
	}

	d = s.Draft()
	for ei, ex := range p.Exercises {
		if err := s.UpdateExerciseName(ei, ex.Name); err != nil {
			return err
		}
		have := len(d.Exercises[ei].Sets)
		for n := have; n < len(ex.Sets); n++ {
			if _, err := s.AddSet(ei); err != nil {
				return err
			}
		}
		for n := have; n > len(ex.Sets); n-- {
			if err := s.RemoveSet(ei, n-1); err != nil {
				return err
			}
		}
		for si, set := range ex.Sets {
			if err := s.UpdateSet(ei, si, draft.FieldReps, set.Reps); err != nil {
				return err
			}
			if err := s.UpdateSet(ei, si, draft.FieldWeightLbs, set.Weight); err != nil {
				return err
			}
		}
	}
	return nil
}
