// Package editor drives one workout draft per session through the create or
// edit flow: user actions mutate the draft one at a time, and Submit validates,
// serializes and sends it to the backend.
package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/setlog/internal/draft"
	"github.com/claude/setlog/internal/models"
	"github.com/google/uuid"
)

// RouteDashboard is where a session navigates after it finishes, is
// cancelled, or fails to load.
const RouteDashboard = "/dashboard"

// Backend is the workout API the editor submits to. *api.Client satisfies it.
// CreateWorkout and UpdateWorkout may return a nil record with a nil error;
// the write still counts as accepted.
type Backend interface {
	GetWorkout(ctx context.Context, id string) (*models.WorkoutRecord, error)
	CreateWorkout(ctx context.Context, w models.WireWorkout) (*models.WorkoutRecord, error)
	UpdateWorkout(ctx context.Context, id string, w models.WireWorkout) (*models.WorkoutRecord, error)
}

// Navigator receives route changes.
type Navigator interface {
	GoTo(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) GoTo(route string) { f(route) }

// Options configures new sessions.
type Options struct {
	// StrictNumbers rejects "10kg"-style input instead of reading its
	// leading integer.
	StrictNumbers bool
	// IDs generates local identifiers. Defaults to random UUIDs.
	IDs draft.IDSource
	// Now supplies the creation date. Defaults to time.Now.
	Now func() time.Time
	// Navigator is told about every route change, in addition to the
	// session recording it.
	Navigator Navigator
}

// Mode distinguishes the create flow from the edit flow.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m Mode) verb() string {
	if m == ModeEdit {
		return "update"
	}
	return "create"
}

// State is the submission state of a session.
type State int

const (
	StateLoading State = iota
	StateIdle
	StateSubmitting
	StateDone
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Session owns one draft for its lifetime. Actions are applied one at a time;
// the lock is not held across backend calls, so Cancel can interrupt a
// submission.
type Session struct {
	id        string
	mode      Mode
	workoutID string
	backend   Backend
	opts      Options
	parse     draft.ParseFunc
	log       *slog.Logger

	// ctx lives as long as the session; cancelling it aborts in-flight
	// requests.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	draft    *draft.Workout
	notice   string
	redirect string
	result   *models.WorkoutRecord
}

func newSession(mode Mode, workoutID string, backend Backend, opts Options, log *slog.Logger) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = draft.NewUUID
	}
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	return &Session{
		id:        id,
		mode:      mode,
		workoutID: workoutID,
		backend:   backend,
		opts:      opts,
		parse:     draft.Parser(opts.StrictNumbers),
		log:       log.With("session", id, "mode", mode.String()),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// NewCreate starts a create-flow session holding a blank draft.
func NewCreate(backend Backend, opts Options, log *slog.Logger) *Session {
	s := newSession(ModeCreate, "", backend, opts, log)
	s.draft = draft.Blank(s.opts.Now(), s.opts.IDs)
	s.state = StateIdle
	return s
}

// NewEdit starts an edit-flow session by fetching workoutID and hydrating the
// draft from it. On failure it navigates to the dashboard and returns a
// *LoadError.
func NewEdit(ctx context.Context, backend Backend, workoutID string, opts Options, log *slog.Logger) (*Session, error) {
	s := newSession(ModeEdit, workoutID, backend, opts, log)
	s.state = StateLoading

	reqCtx, cancel := s.bind(ctx)
	rec, err := backend.GetWorkout(reqCtx, workoutID)
	cancel()

	s.mu.Lock()
	if err != nil {
		lerr := &LoadError{WorkoutID: workoutID, Err: err}
		s.log.Error("load workout failed", "workout_id", workoutID, "error", err)
		s.state = StateCancelled
		s.notice = lerr.Message()
		s.redirect = RouteDashboard
		s.cancel()
		s.mu.Unlock()
		s.goTo(RouteDashboard)
		return nil, lerr
	}
	s.draft = draft.FromWire(rec, s.opts.IDs)
	s.state = StateIdle
	s.mu.Unlock()

	s.log.Info("workout loaded", "workout_id", workoutID, "exercises", len(rec.Exercises))
	return s, nil
}

func (s *Session) ID() string        { return s.id }
func (s *Session) Mode() Mode        { return s.mode }
func (s *Session) WorkoutID() string { return s.workoutID }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a copy of the current draft, or nil once discarded.
func (s *Session) Draft() *draft.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	return s.draft.Clone()
}

// Closed reports whether the session finished or was cancelled.
func (s *Session) Closed() bool {
	st := s.State()
	return st == StateDone || st == StateCancelled
}

// Context is cancelled when the session closes.
func (s *Session) Context() context.Context { return s.ctx }

// --- Draft actions ---

func (s *Session) SetName(name string) error {
	return s.apply(func(d *draft.Workout) error {
		d.SetName(name)
		return nil
	})
}

func (s *Session) SetNotes(notes string) error {
	return s.apply(func(d *draft.Workout) error {
		d.SetNotes(notes)
		return nil
	})
}

func (s *Session) AddExercise() (int, error) {
	var idx int
	err := s.apply(func(d *draft.Workout) error {
		idx = d.AddExercise()
		return nil
	})
	return idx, err
}

// RemoveExercise refuses to remove the only exercise.
func (s *Session) RemoveExercise(i int) error {
	return s.apply(func(d *draft.Workout) error {
		if len(d.Exercises) == 1 && i == 0 {
			return ErrLastExercise
		}
		return d.RemoveExercise(i)
	})
}

func (s *Session) UpdateExerciseName(i int, name string) error {
	return s.apply(func(d *draft.Workout) error {
		return d.UpdateExerciseName(i, name)
	})
}

func (s *Session) AddSet(ei int) (int, error) {
	var idx int
	err := s.apply(func(d *draft.Workout) error {
		var err error
		idx, err = d.AddSet(ei)
		return err
	})
	return idx, err
}

// RemoveSet refuses to remove the only set of an exercise.
func (s *Session) RemoveSet(ei, si int) error {
	return s.apply(func(d *draft.Workout) error {
		if ei >= 0 && ei < len(d.Exercises) && len(d.Exercises[ei].Sets) == 1 && si == 0 {
			return ErrLastSet
		}
		return d.RemoveSet(ei, si)
	})
}

func (s *Session) UpdateSet(ei, si int, field draft.Field, value string) error {
	return s.apply(func(d *draft.Workout) error {
		return d.UpdateSet(ei, si, field, value)
	})
}

func (s *Session) apply(fn func(d *draft.Workout) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	return fn(s.draft)
}

// ready reports whether the session accepts actions. Caller holds mu.
func (s *Session) ready() error {
	switch s.state {
	case StateIdle:
		return nil
	case StateLoading, StateSubmitting:
		return ErrBusy
	default:
		return ErrClosed
	}
}

// --- Submission ---

// Submit checks the draft, then creates or updates the workout. The edit flow
// runs the full validator; the create flow only requires every field to be
// filled and leaves the rest to the backend. A *draft.ValidationError means
// nothing was sent. A *SubmissionError means the backend call failed and the
// draft is kept for another attempt. On success the session is done and
// navigates to the dashboard.
func (s *Session) Submit(ctx context.Context) (*models.WorkoutRecord, error) {
	s.mu.Lock()
	if err := s.ready(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.check(); err != nil {
		s.notice = err.Error()
		s.mu.Unlock()
		return nil, err
	}
	payload := s.payload()
	s.state = StateSubmitting
	s.notice = ""
	s.mu.Unlock()

	reqCtx, cancel := s.bind(ctx)
	rec, err := s.send(reqCtx, payload)
	cancel()

	s.mu.Lock()
	if s.state != StateSubmitting {
		// Cancelled while the request was in flight; the response is dropped.
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if err != nil {
		serr := &SubmissionError{Mode: s.mode, Err: err}
		s.state = StateIdle
		s.notice = serr.Message()
		s.mu.Unlock()
		s.log.Error("submit failed", "error", err)
		return nil, serr
	}
	if rec == nil {
		rec = &models.WorkoutRecord{}
	}
	s.state = StateDone
	s.result = rec
	s.redirect = RouteDashboard
	s.cancel()
	s.mu.Unlock()

	s.log.Info("workout submitted", "workout_id", string(rec.ID))
	s.goTo(RouteDashboard)
	return rec, nil
}

// Preview runs the submit-time check and returns the payload Submit would
// send, without sending it or changing state.
func (s *Session) Preview() (models.WireWorkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.WireWorkout{}, err
	}
	if err := s.check(); err != nil {
		return models.WireWorkout{}, err
	}
	return s.payload(), nil
}

func (s *Session) payload() models.WireWorkout {
	return s.draft.ToWire(draft.WireOptions{
		IncludeDate: s.mode == ModeCreate,
		Parse:       s.parse,
	})
}

func (s *Session) check() error {
	if s.mode == ModeEdit {
		return draft.Validate(s.draft, s.parse)
	}
	return draft.CheckRequired(s.draft)
}

func (s *Session) send(ctx context.Context, payload models.WireWorkout) (*models.WorkoutRecord, error) {
	if s.mode == ModeEdit {
		return s.backend.UpdateWorkout(ctx, s.workoutID, payload)
	}
	return s.backend.CreateWorkout(ctx, payload)
}

// bind derives a request context that ends with either ctx or the session.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}
}

// Cancel discards the draft, aborts any in-flight request and navigates to
// the dashboard. Cancelling a closed session does nothing.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.state == StateDone || s.state == StateCancelled {
		s.mu.Unlock()
		return
	}
	s.state = StateCancelled
	s.draft = nil
	s.notice = ""
	s.redirect = RouteDashboard
	s.cancel()
	s.mu.Unlock()

	s.log.Info("editor cancelled")
	s.goTo(RouteDashboard)
}

// teardown closes the session without navigating, for sessions dropped by
// the store.
func (s *Session) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDone && s.state != StateCancelled {
		s.state = StateCancelled
		s.draft = nil
		s.log.Info("editor discarded")
	}
	s.cancel()
}

func (s *Session) goTo(route string) {
	if s.opts.Navigator != nil {
		s.opts.Navigator.GoTo(route)
	}
}

// --- Views ---

// Guards reports which remove and submit controls are enabled.
type Guards struct {
	RemoveExercise bool   `json:"removeExercise"`
	RemoveSet      []bool `json:"removeSet"`
	Submit         bool   `json:"submit"`
}

// View is a snapshot of a session for rendering.
type View struct {
	ID        string                `json:"id"`
	Mode      Mode                  `json:"mode"`
	WorkoutID string                `json:"workoutId,omitempty"`
	State     State                 `json:"state"`
	Draft     *draft.Workout        `json:"draft,omitempty"`
	Guards    Guards                `json:"guards"`
	Notice    string                `json:"notice,omitempty"`
	Redirect  string                `json:"redirect,omitempty"`
	Result    *models.WorkoutRecord `json:"result,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:        s.id,
		Mode:      s.mode,
		WorkoutID: s.workoutID,
		State:     s.state,
		Notice:    s.notice,
		Redirect:  s.redirect,
		Result:    s.result,
	}
	if s.draft == nil {
		return v
	}
	v.Draft = s.draft.Clone()
	idle := s.state == StateIdle
	v.Guards = Guards{
		RemoveExercise: idle && len(s.draft.Exercises) > 1,
		RemoveSet:      make([]bool, len(s.draft.Exercises)),
		Submit:         idle,
	}
	for i, ex := range s.draft.Exercises {
		v.Guards.RemoveSet[i] = idle && len(ex.Sets) > 1
	}
	return v
}
