package upload

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Alpha Progression CSV exports hold one block per session, separated by
// blank lines:
//
//	"Legs · Day 2";"2026-02-19 4:54 h";"1:02 hr"
//	"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps"
//	#;KG;REPS;RIR
//	1;115;8;1
//
// Weights are kilograms with decimal commas; "+35" is bodyweight plus 35 kg.
// Warmups only appear in the exercise header and are not imported.
var (
	alphaSessionRe  = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)
	alphaExerciseRe = regexp.MustCompile(`^"\d+\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+\d+\s+reps.*?"(?:;".+")?$`)
	alphaSetRe      = regexp.MustCompile(`^\d+;(\+?[\d,.]+);(\d+);.+$`)
	alphaColumnsRe  = regexp.MustCompile(`^#;KG;REPS;RIR$`)
)

const (
	lbsPerKg        = 2.20462
	alphaDateLayout = "2006-01-02 15:04"
	alphaKeyLayout  = "2006-01-02T15:04"
)

// LoadAlpha reads an Alpha Progression export as one plan per session.
func LoadAlpha(path string) ([]*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	defer f.Close()

	plans, err := ParseAlpha(f)
	if err != nil {
		return nil, fmt.Errorf("parsing export %s: %w", path, err)
	}
	return plans, nil
}

// ParseAlpha converts each session of an export into a Plan keyed by its
// start time. Sessions without working sets are dropped.
func ParseAlpha(r io.Reader) ([]*Plan, error) {
	var (
		plans   []*Plan
		current *Plan
		lineNo  int
	)
	flush := func() {
		if current == nil {
			return
		}
		exercises := current.Exercises[:0]
		for _, ex := range current.Exercises {
			if len(ex.Sets) > 0 {
				exercises = append(exercises, ex)
			}
		}
		current.Exercises = exercises
		if len(exercises) > 0 {
			plans = append(plans, current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			flush()

		case alphaColumnsRe.MatchString(line):

		case alphaSessionRe.MatchString(line):
			flush()
			m := alphaSessionRe.FindStringSubmatch(line)
			started, err := parseAlphaDate(m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current = &Plan{
				Key:   started.Format(alphaKeyLayout),
				Name:  m[1],
				Notes: fmt.Sprintf("Alpha Progression session %s, %s", started.Format(alphaDateLayout), m[3]),
			}

		case alphaExerciseRe.MatchString(line):
			if current == nil {
				return nil, fmt.Errorf("line %d: exercise outside a session", lineNo)
			}
			m := alphaExerciseRe.FindStringSubmatch(line)
			name := strings.TrimSpace(m[1])
			if equipment := strings.TrimSpace(m[2]); equipment != "" {
				name = fmt.Sprintf("%s (%s)", name, equipment)
			}
			current.Exercises = append(current.Exercises, PlanExercise{Name: name})

		case alphaSetRe.MatchString(line):
			if current == nil || len(current.Exercises) == 0 {
				return nil, fmt.Errorf("line %d: set outside an exercise", lineNo)
			}
			m := alphaSetRe.FindStringSubmatch(line)
			kg, err := parseDecimalComma(strings.TrimPrefix(m[1], "+"))
			if err != nil {
				return nil, fmt.Errorf("line %d: weight %q: %w", lineNo, m[1], err)
			}
			ex := &current.Exercises[len(current.Exercises)-1]
			ex.Sets = append(ex.Sets, PlanSet{
				Reps:   m[2],
				Weight: strconv.Itoa(kgToLbs(kg)),
			})
		}
		// Anything else is free text and ignored.
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return plans, nil
}

// parseAlphaDate accepts both "2026-02-19 4:54" and "2026-02-19 16:54".
func parseAlphaDate(s string) (time.Time, error) {
	for _, layout := range []string{alphaDateLayout, "2006-01-02 3:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse session date %q", s)
}

func parseDecimalComma(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

// kgToLbs rounds to the nearest whole pound; the workout API stores integers.
func kgToLbs(kg float64) int {
	return int(math.Round(kg * lbsPerKg))
}
