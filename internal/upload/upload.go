// Package upload submits workout plans from files through the editor, one
// session per plan, skipping plans that have not changed since their last
// successful submission. Plans are hand-written YAML files or sessions from an
// Alpha Progression CSV export.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/setlog/internal/editor"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal   int
	FilesErrored int

	PlansTotal   int
	PlansSkipped int
	PlansErrored int

	WorkoutsCreated int
	WorkoutsUpdated int
}

// Uploader walks a plan file or directory and submits each plan.
type Uploader struct {
	svc    *editor.Service
	state  *StateDB
	root   string
	dryRun bool
	out    io.Writer
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. state may be nil, in which case every plan is
// submitted. In dry-run mode the payloads are written to out instead of sent;
// edited workouts are still fetched.
func New(svc *editor.Service, state *StateDB, root string, dryRun bool, out io.Writer, log *slog.Logger) *Uploader {
	return &Uploader{
		svc:    svc,
		state:  state,
		root:   root,
		dryRun: dryRun,
		out:    out,
		log:    log,
	}
}

// Run processes every plan. Failures are logged and counted, and do not stop
// the remaining plans.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := CollectPlans(u.root)
	if err != nil {
		return &u.stats, err
	}
	u.log.Info("found plan files", "count", len(files))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++

		plans, err := loadFile(f)
		if err != nil {
			u.log.Warn("load failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		rel := u.relPath(f)
		for _, p := range plans {
			if err := ctx.Err(); err != nil {
				return &u.stats, err
			}
			u.stats.PlansTotal++
			key := planKey(rel, p)
			if err := u.processPlan(ctx, key, p); err != nil {
				u.log.Warn("plan failed", "plan", key, "error", err)
				u.stats.PlansErrored++
			}
		}
	}

	if failed := u.stats.FilesErrored + u.stats.PlansErrored; failed > 0 {
		return &u.stats, fmt.Errorf("%d files and %d plans failed", u.stats.FilesErrored, u.stats.PlansErrored)
	}
	return &u.stats, nil
}

// CollectPlans returns root itself if it is a file, or every .yaml, .yml and
// .csv file beneath it in lexical order.
func CollectPlans(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("plan path: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".csv":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func loadFile(path string) ([]*Plan, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadAlpha(path)
	}
	p, err := LoadPlan(path)
	if err != nil {
		return nil, err
	}
	return []*Plan{p}, nil
}

func planKey(rel string, p *Plan) string {
	if p.Key == "" {
		return rel
	}
	return rel + "#" + p.Key
}

func (u *Uploader) processPlan(ctx context.Context, key string, p *Plan) error {
	hash, err := p.Hash()
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}

	var prev *Submission
	if u.state != nil {
		prev, err = u.state.Lookup(key)
		if err != nil {
			return fmt.Errorf("state lookup: %w", err)
		}
		if prev != nil && prev.Hash == hash {
			u.log.Info("unchanged, skipping", "plan", key, "workout_id", prev.WorkoutID)
			u.stats.PlansSkipped++
			return nil
		}
	}

	// A changed plan updates the workout it created last time.
	workoutID := p.ID
	if workoutID == "" && prev != nil {
		workoutID = prev.WorkoutID
		if workoutID == "" {
			u.log.Warn("plan changed but its workout id is unknown, creating a new workout", "plan", key)
		}
	}

	var s *editor.Session
	if workoutID != "" {
		s, err = u.svc.EditWorkout(ctx, workoutID)
		if err != nil {
			return err
		}
	} else {
		s = u.svc.NewWorkout()
	}

	if err := p.Apply(s); err != nil {
		_, _ = u.svc.Cancel(s.ID())
		return fmt.Errorf("applying plan: %w", err)
	}

	if u.dryRun {
		return u.preview(key, s)
	}

	_, rec, err := u.svc.Submit(ctx, s.ID())
	if err != nil {
		_, _ = u.svc.Cancel(s.ID())
		return err
	}
	u.count(s.Mode())

	id := string(rec.ID)
	if id == "" {
		id = workoutID
	}
	if id == "" {
		u.log.Warn("backend returned no workout id, later changes to this plan will create a new workout", "plan", key)
	}
	u.log.Info("plan submitted", "plan", key, "mode", s.Mode().String(), "workout_id", id)

	// Recorded even without an id, so an unchanged plan is never sent twice.
	if u.state != nil {
		if err := u.state.MarkSubmitted(key, hash, id); err != nil {
			u.log.Warn("state update failed", "plan", key, "error", err)
		}
	}
	return nil
}

func (u *Uploader) preview(key string, s *editor.Session) error {
	defer func() { _, _ = u.svc.Cancel(s.ID()) }()

	payload, err := s.Preview()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(u.out, "# %s (%s)\n%s\n", key, s.Mode(), data)
	u.count(s.Mode())
	return nil
}

func (u *Uploader) count(mode editor.Mode) {
	if mode == editor.ModeEdit {
		u.stats.WorkoutsUpdated++
	} else {
		u.stats.WorkoutsCreated++
	}
}

func (u *Uploader) relPath(path string) string {
	if rel, err := filepath.Rel(u.root, path); err == nil && rel != "." {
		return filepath.ToSlash(rel)
	}
	return filepath.Base(path)
}
