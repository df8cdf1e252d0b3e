package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claude/setlog/internal/models"
)

// newTestServer routes requests to handlers keyed by "METHOD path".
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestGetWorkout verifies the path, bearer header, and decoding.
func TestGetWorkout(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/workouts/w-1": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("Authorization = %q, want Bearer tok", got)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"w-1","name":"Leg Day","exercises":[{"id":7,"name":"Squat","sets":[{"reps":10,"weightLbs":135}]}]}`)
		},
	})
	defer ts.Close()

	client := NewClient(ts.URL+"/", StaticToken("tok"), time.Second, nil)
	rec, err := client.GetWorkout(context.Background(), "w-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Name != "Leg Day" || len(rec.Exercises) != 1 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Exercises[0].ID != "7" {
		t.Errorf("exercise id = %q, want 7", rec.Exercises[0].ID)
	}
	if rec.Exercises[0].Sets[0].WeightLbs != 135 {
		t.Errorf("weight = %v, want 135", rec.Exercises[0].Sets[0].WeightLbs)
	}
}

// TestCreateWorkout verifies the request body and method.
func TestCreateWorkout(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/workouts": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q", got)
			}
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("Authorization = %q, want none", got)
			}
			body, _ := io.ReadAll(r.Body)
			want := `{"name":"Push","notes":"","date":"2026-03-14","exercises":[{"name":"Bench","sets":[{"reps":5,"weightLbs":null}]}]}`
			if string(body) != want {
				t.Errorf("body = %s\nwant   %s", body, want)
			}
			w.WriteHeader(http.StatusCreated)
			writeTestJSON(t, w, models.WorkoutRecord{ID: "new", Name: "Push"})
		},
	})
	defer ts.Close()

	client := NewClient(ts.URL, nil, 0, nil)
	rec, err := client.CreateWorkout(context.Background(), models.WireWorkout{
		Name: "Push",
		Date: "2026-03-14",
		Exercises: []models.WireExercise{
			{Name: "Bench", Sets: []models.WireSet{{Reps: models.Int(5)}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != "new" {
		t.Errorf("id = %q, want new", rec.ID)
	}
}

// TestUpdateWorkout verifies PUT with an escaped id and an empty 204 body.
func TestUpdateWorkout(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"PUT /api/workouts/a b": func(w http.ResponseWriter, r *http.Request) {
			var got models.WireWorkout
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Date != "" {
				t.Errorf("date = %q, want omitted", got.Date)
			}
			w.WriteHeader(http.StatusNoContent)
		},
	})
	defer ts.Close()

	client := NewClient(ts.URL, StaticToken("tok"), time.Second, nil)
	if _, err := client.UpdateWorkout(context.Background(), "a b", models.WireWorkout{Name: "x"}); err != nil {
		t.Fatal(err)
	}
}

// TestStatusErrors verifies status codes map to the sentinel errors.
func TestStatusErrors(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/workouts/missing": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		},
		"GET /api/workouts/secret": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		},
		"POST /api/workouts": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"reps must be a number"}`, http.StatusBadRequest)
		},
	})
	defer ts.Close()

	client := NewClient(ts.URL, StaticToken("tok"), time.Second, nil)
	ctx := context.Background()

	_, err := client.GetWorkout(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}

	_, err = client.GetWorkout(ctx, "secret")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("secret: err = %v, want ErrUnauthorized", err)
	}

	_, err = client.CreateWorkout(ctx, models.WireWorkout{})
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("create: err = %v, want *StatusError", err)
	}
	if serr.Code != http.StatusBadRequest || serr.Body != `{"error":"reps must be a number"}` {
		t.Errorf("status error = %+v", serr)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
		t.Error("400 matched a sentinel error")
	}
}

// TestContextCancel verifies a cancelled context aborts the request.
func TestContextCancel(t *testing.T) {
	release := make(chan struct{})
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/workouts/slow": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		},
	})
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(ts.URL, nil, time.Second, nil)
	if _, err := client.GetWorkout(ctx, "slow"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// TestAcceptedWriteWithBadReply verifies a 2xx write succeeds even when its
// reply does not decode, so the caller never resends a stored workout.
func TestAcceptedWriteWithBadReply(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/workouts": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":"w-9","name":"Push","exercises":[{"name":"Bench","sets":[{"reps":"10","weightLbs":135}]}]}`)
		},
		"PUT /api/workouts/w-9": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "OK")
		},
		"GET /api/workouts/w-9": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "OK")
		},
	})
	defer ts.Close()

	var buf bytes.Buffer
	client := NewClient(ts.URL, nil, time.Second, slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	rec, err := client.CreateWorkout(ctx, models.WireWorkout{Name: "Push"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID != "w-9" {
		t.Errorf("id = %q, want w-9 from the partial reply", rec.ID)
	}

	if _, err := client.UpdateWorkout(ctx, "w-9", models.WireWorkout{Name: "Push"}); err != nil {
		t.Errorf("update: %v", err)
	}
	if n := strings.Count(buf.String(), "undecodable reply"); n != 2 {
		t.Errorf("warnings = %d, want 2:\n%s", n, buf.String())
	}

	if _, err := client.GetWorkout(ctx, "w-9"); err == nil {
		t.Error("get: expected decode error")
	}
}
