package editor

import (
	"context"
	"log/slog"

	"github.com/claude/setlog/internal/models"
)

// Service opens sessions for both flows and keeps them in a Store so that
// stateless transports can address them by id.
type Service struct {
	backend Backend
	store   *Store
	opts    Options
	log     *slog.Logger
}

func NewService(backend Backend, store *Store, opts Options, log *slog.Logger) *Service {
	return &Service{backend: backend, store: store, opts: opts, log: log}
}

// NewWorkout opens a create-flow session.
func (svc *Service) NewWorkout() *Session {
	s := NewCreate(svc.backend, svc.opts, svc.log)
	svc.store.Add(s)
	svc.log.Info("editor opened", "session", s.ID(), "mode", s.Mode().String())
	return s
}

// EditWorkout opens an edit-flow session for workoutID. Sessions that fail to
// load are never stored.
func (svc *Service) EditWorkout(ctx context.Context, workoutID string) (*Session, error) {
	s, err := NewEdit(ctx, svc.backend, workoutID, svc.opts, svc.log)
	if err != nil {
		return nil, err
	}
	svc.store.Add(s)
	svc.log.Info("editor opened", "session", s.ID(), "mode", s.Mode().String(), "workout_id", workoutID)
	return s, nil
}

// Session looks up an open session.
func (svc *Service) Session(id string) (*Session, error) {
	s, ok := svc.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Submit submits the session and drops it from the store once done.
func (svc *Service) Submit(ctx context.Context, id string) (*Session, *models.WorkoutRecord, error) {
	s, err := svc.Session(id)
	if err != nil {
		return nil, nil, err
	}
	rec, err := s.Submit(ctx)
	if s.Closed() {
		svc.store.Remove(id)
	}
	return s, rec, err
}

// Cancel cancels the session and drops it from the store.
func (svc *Service) Cancel(id string) (*Session, error) {
	s, err := svc.Session(id)
	if err != nil {
		return nil, err
	}
	s.Cancel()
	svc.store.Remove(id)
	return s, nil
}

// Sessions lists the open sessions.
func (svc *Service) Sessions() []*Session {
	return svc.store.List()
}

// Close tears down all open sessions.
func (svc *Service) Close() {
	svc.store.Close()
}
