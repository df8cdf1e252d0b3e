package upload

import (
	"context"
	"io"
	"strings"
	"testing"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Standing Calf Raises · Machine · 12 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;157,5;11;1
"5. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 17:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;100;6;0
`

// TestParseAlphaSessions covers the happy path end to end: sessions become
// plans, warmups are dropped and weights are converted to pounds.
func TestParseAlphaSessions(t *testing.T) {
	plans, err := ParseAlpha(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("plans = %d, want 2", len(plans))
	}

	legs := plans[0]
	if legs.Key != "2026-02-19T04:54" {
		t.Errorf("key = %q", legs.Key)
	}
	if legs.Name != "Legs · Day 2 · Week 4 · Push-Pull-Legs" {
		t.Errorf("name = %q", legs.Name)
	}
	if !strings.Contains(legs.Notes, "1:02 hr") {
		t.Errorf("notes = %q, want duration", legs.Notes)
	}
	if len(legs.Exercises) != 5 {
		t.Fatalf("exercises = %d, want 5", len(legs.Exercises))
	}

	tests := []struct {
		ex     int
		name   string
		sets   int
		reps   string
		weight string
	}{
		{0, "Hack Squats (Machine)", 3, "8", "254"},
		{1, "Sumo Squats (Smith machine)", 2, "8", "154"},
		{2, "Hyperextensions on Roman Chair (Bodyweight)", 3, "10", "77"},
		{3, "Standing Calf Raises (Machine)", 1, "11", "347"},
		{4, "Hanging Leg Raises (Bodyweight)", 1, "12", "0"},
	}
	for _, tt := range tests {
		ex := legs.Exercises[tt.ex]
		if ex.Name != tt.name {
			t.Errorf("exercise %d name = %q, want %q", tt.ex, ex.Name, tt.name)
		}
		if len(ex.Sets) != tt.sets {
			t.Errorf("%s sets = %d, want %d (warmups must be skipped)", tt.name, len(ex.Sets), tt.sets)
			continue
		}
		if got := ex.Sets[0]; got.Reps != tt.reps || got.Weight != tt.weight {
			t.Errorf("%s first set = %+v, want reps %s weight %s", tt.name, got, tt.reps, tt.weight)
		}
	}

	push := plans[1]
	if push.Key != "2026-02-17T17:04" {
		t.Errorf("key = %q", push.Key)
	}
	if got := push.Exercises[0].Sets; len(got) != 2 || got[0].Weight != "226" || got[1].Weight != "220" {
		t.Errorf("bench sets = %+v", got)
	}
}

func TestParseAlphaErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exercise before session", `"1. Bench Press · Barbell · 6 reps"`},
		{"set before exercise", "\"Push\";\"2026-02-17 5:04 h\";\"1:00 hr\"\n1;100;6;0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAlpha(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestParseAlphaDropsEmptySessions verifies sessions without working sets
// produce no plan.
func TestParseAlphaDropsEmptySessions(t *testing.T) {
	input := `"Rest";"2026-02-18 6:00 h";"0:05 hr"
"1. Stretching · Mat · 1 reps"
some free text
`
	plans, err := ParseAlpha(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("plans = %d, want 0", len(plans))
	}
}

func TestKgToLbs(t *testing.T) {
	tests := []struct {
		kg   float64
		want int
	}{
		{0, 0},
		{20, 44},
		{102.5, 226},
		{0.2, 0},
	}
	for _, tt := range tests {
		if got := kgToLbs(tt.kg); got != tt.want {
			t.Errorf("kgToLbs(%v) = %d, want %d", tt.kg, got, tt.want)
		}
	}
}

// TestUploaderAlphaExport verifies each session of an export is tracked under
// its own key.
func TestUploaderAlphaExport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "export.csv", sampleCSV)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	backend := newMemBackend()
	svc := newService(t, backend)

	stats, err := New(svc, state, dir, false, io.Discard, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.FilesTotal != 1 || stats.PlansTotal != 2 || stats.WorkoutsCreated != 2 {
		t.Errorf("stats = %+v", stats)
	}
	for _, key := range []string{"export.csv#2026-02-19T04:54", "export.csv#2026-02-17T17:04"} {
		sub, err := state.Lookup(key)
		if err != nil || sub == nil {
			t.Errorf("lookup %s = %v, %v", key, sub, err)
		}
	}
}
