package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/setlog/internal/draft"
	"github.com/claude/setlog/internal/editor"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolNewWorkout = mcp.NewTool("new_workout",
	mcp.WithDescription("Open a draft for a new workout dated today. The draft starts with one empty exercise holding one empty set. Returns the draft view including its draft_id."),
)

var toolEditWorkout = mcp.NewTool("edit_workout",
	mcp.WithDescription("Load an existing workout into a new draft for editing. Saving replaces the stored workout; its date is left unchanged."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout ID")),
)

var toolSetWorkoutDetails = mcp.NewTool("set_workout_details",
	mcp.WithDescription("Set the workout name and/or notes. Omitted fields are left as they are."),
	mcp.WithString("draft_id", mcp.Required(), mcp.Description("Draft ID")),
	mcp.WithString("name", mcp.Description("Workout name")),
	mcp.WithString("notes", mcp.Description("Free-form notes")),
)

var toolAddExercise = mcp.NewTool("add_exercise",
	mcp.WithDescription("Append an empty exercise with one empty set."),
	mcp.WithString("draft_id", mcp.Required(), mcp.Description("Draft ID")),
)

var toolRemoveExercise = mcp.NewTool("remove_exercise",
	mcp.WithDescription("Remove an exercise. The last remaining exercise cannot be removed."),
	mcp.WithString("draft_id", mcp.Required(), mcp.Description("Draft ID")),
	mcp.WithNumber("index", mcp.Required(), mcp.Description("Exercise index, 0-based")),
)

var toolRenameExercise = mcp.NewTool("rename_exercise",
	mcp.WithDescription("Set an exercise's name."),
	mcp.WithString("draft_id", mcp.Required(), mcp.Description("Draft ID")),
	mcp.WithNumber("index", mcp.Required(), mcp.Description("Exercise index, 0-based")),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name (e.g. Squat)")),
)

var toolAddSet = mcp.NewTool("add_set",
	mcp.WithDescription("Append an empty set to an exercise."),
	mcp.WithString("draft_id", mcp.Required(), mcp.Description("Draft ID")),
	mcp.WithNumber("exercise", mcp.Required(), mcp.Description("Exercise index, 0-based")),
)

var toolRemoveSet = mcp.NewTool("remove_set",
	mcp.WithDescription("Remove a set. The last remaining set of an exercise cannot be removed."),
	mcp.WithString("draft_id", mcp.Required(), mcp.Description("Draft ID")),
	mcp.WithNumber("exercise", mcp.Required(), mcp.Description("Exercise index, 0-based")),
	mcp.WithNumber("set", mcp.Required(), mcp.Description("Set index within the exercise, 0-based")),
)

var toolUpdateSet = mcp.NewTool("update_set",
	mcp.WithDescription("Set the reps or weight (lbs) of a set. Values are kept as entered and checked on submit."),
	mcp.WithString("draft_id", mcp.Required(), mcp.Description("Draft ID")),
	mcp.WithNumber("exercise", mcp.Required(), mcp.Description("Exercise index, 0-based")),
	mcp.WithNumber("set", mcp.Required(), mcp.Description("Set index within the exercise, 0-based")),
	mcp.WithString("field", mcp.Required(), mcp.Description("Field to set"), mcp.Enum(string(draft.FieldReps), string(draft.FieldWeightLbs))),
	mcp.WithString("value", mcp.Required(), mcp.Description("Whole number, e.g. 10")),
)

var toolShowDraft = mcp.NewTool("show_draft",
	mcp.WithDescription("Show a draft: its fields, submission state and which remove/submit controls are enabled."),
	mcp.WithString("draft_id", mcp.Required(), mcp.Description("Draft ID")),
)

var toolSubmitWorkout = mcp.NewTool("submit_workout",
	mcp.WithDescription("Save the draft. New workouts need every field filled in; edited workouts also need reps above 0 and a weight of 0 or more. On failure the draft is kept and can be fixed and resubmitted."),
	mcp.WithString("draft_id", mcp.Required(), mcp.Description("Draft ID")),
)

var toolCancelWorkout = mcp.NewTool("cancel_workout",
	mcp.WithDescription("Discard the draft without saving."),
	mcp.WithString("draft_id", mcp.Required(), mcp.Description("Draft ID")),
)

// --- Tool handlers ---

func (h *handlers) newWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return viewResult(h.svc.NewWorkout())
}

func (h *handlers) editWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	s, err := h.svc.EditWorkout(ctx, id)
	if err != nil {
		return h.errorResult("edit_workout", err), nil
	}
	return viewResult(s)
}

func (h *handlers) setWorkoutDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := h.session(req)
	if res != nil {
		return res, nil
	}
	args := req.GetArguments()
	if name, ok := args["name"].(string); ok {
		if err := s.SetName(name); err != nil {
			return h.errorResult("set_workout_details", err), nil
		}
	}
	if notes, ok := args["notes"].(string); ok {
		if err := s.SetNotes(notes); err != nil {
			return h.errorResult("set_workout_details", err), nil
		}
	}
	return viewResult(s)
}

func (h *handlers) addExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := h.session(req)
	if res != nil {
		return res, nil
	}
	if _, err := s.AddExercise(); err != nil {
		return h.errorResult("add_exercise", err), nil
	}
	return viewResult(s)
}

func (h *handlers) removeExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := h.session(req)
	if res != nil {
		return res, nil
	}
	i, res := index(req, "index")
	if res != nil {
		return res, nil
	}
	if err := s.RemoveExercise(i); err != nil {
		return h.errorResult("remove_exercise", err), nil
	}
	return viewResult(s)
}

func (h *handlers) renameExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := h.session(req)
	if res != nil {
		return res, nil
	}
	i, res := index(req, "index")
	if res != nil {
		return res, nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	if err := s.UpdateExerciseName(i, name); err != nil {
		return h.errorResult("rename_exercise", err), nil
	}
	return viewResult(s)
}

func (h *handlers) addSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := h.session(req)
	if res != nil {
		return res, nil
	}
	ei, res := index(req, "exercise")
	if res != nil {
		return res, nil
	}
	if _, err := s.AddSet(ei); err != nil {
		return h.errorResult("add_set", err), nil
	}
	return viewResult(s)
}

func (h *handlers) removeSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := h.session(req)
	if res != nil {
		return res, nil
	}
	ei, res := index(req, "exercise")
	if res != nil {
		return res, nil
	}
	si, res := index(req, "set")
	if res != nil {
		return res, nil
	}
	if err := s.RemoveSet(ei, si); err != nil {
		return h.errorResult("remove_set", err), nil
	}
	return viewResult(s)
}

func (h *handlers) updateSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := h.session(req)
	if res != nil {
		return res, nil
	}
	ei, res := index(req, "exercise")
	if res != nil {
		return res, nil
	}
	si, res := index(req, "set")
	if res != nil {
		return res, nil
	}
	field, err := req.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError("field parameter is required"), nil
	}
	// An empty value is allowed; it clears the field.
	value := req.GetString("value", "")
	if err := s.UpdateSet(ei, si, draft.Field(field), value); err != nil {
		return h.errorResult("update_set", err), nil
	}
	return viewResult(s)
}

func (h *handlers) showDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := h.session(req)
	if res != nil {
		return res, nil
	}
	return viewResult(s)
}

func (h *handlers) submitWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("draft_id")
	if err != nil {
		return mcp.NewToolResultError("draft_id parameter is required"), nil
	}
	s, _, err := h.svc.Submit(ctx, id)
	if err != nil {
		return h.errorResult("submit_workout", err), nil
	}
	return viewResult(s)
}

func (h *handlers) cancelWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("draft_id")
	if err != nil {
		return mcp.NewToolResultError("draft_id parameter is required"), nil
	}
	s, err := h.svc.Cancel(id)
	if err != nil {
		return h.errorResult("cancel_workout", err), nil
	}
	return viewResult(s)
}

// session resolves draft_id. A non-nil result is a tool error to return as is.
func (h *handlers) session(req mcp.CallToolRequest) (*editor.Session, *mcp.CallToolResult) {
	id, err := req.RequireString("draft_id")
	if err != nil {
		return nil, mcp.NewToolResultError("draft_id parameter is required")
	}
	s, err := h.svc.Session(id)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("no open draft %q", id))
	}
	return s, nil
}

func index(req mcp.CallToolRequest, name string) (int, *mcp.CallToolResult) {
	n, err := req.RequireInt(name)
	if err != nil {
		return 0, mcp.NewToolResultError(name + " parameter is required")
	}
	if n < 0 {
		return 0, mcp.NewToolResultError(name + " must not be negative")
	}
	return n, nil
}

// errorResult turns editor errors into tool errors, preferring the
// user-facing message where there is one.
func (h *handlers) errorResult(tool string, err error) *mcp.CallToolResult {
	var (
		verr *draft.ValidationError
		serr *editor.SubmissionError
		lerr *editor.LoadError
	)
	switch {
	case errors.As(err, &verr):
		return mcp.NewToolResultError(verr.Message)
	case errors.As(err, &serr):
		h.log.Error("mcp "+tool, "error", err)
		return mcp.NewToolResultError(serr.Message())
	case errors.As(err, &lerr):
		h.log.Error("mcp "+tool, "error", err)
		return mcp.NewToolResultError(lerr.Message())
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

func viewResult(s *editor.Session) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(s.View())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
