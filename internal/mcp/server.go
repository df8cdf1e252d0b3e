package mcp

import (
	"log/slog"

	"github.com/claude/setlog/internal/editor"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(svc *editor.Service, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("setlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("setlog workout editor. Open a draft with new_workout or edit_workout, "+
			"fill it in with the editing tools, then submit_workout. Exercise and set indices are 0-based. "+
			"Drafts are discarded after a period of inactivity."),
	)

	h := &handlers{svc: svc, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolNewWorkout, Handler: h.newWorkout},
		server.ServerTool{Tool: toolEditWorkout, Handler: h.editWorkout},
		server.ServerTool{Tool: toolSetWorkoutDetails, Handler: h.setWorkoutDetails},
		server.ServerTool{Tool: toolAddExercise, Handler: h.addExercise},
		server.ServerTool{Tool: toolRemoveExercise, Handler: h.removeExercise},
		server.ServerTool{Tool: toolRenameExercise, Handler: h.renameExercise},
		server.ServerTool{Tool: toolAddSet, Handler: h.addSet},
		server.ServerTool{Tool: toolRemoveSet, Handler: h.removeSet},
		server.ServerTool{Tool: toolUpdateSet, Handler: h.updateSet},
		server.ServerTool{Tool: toolShowDraft, Handler: h.showDraft},
		server.ServerTool{Tool: toolSubmitWorkout, Handler: h.submitWorkout},
		server.ServerTool{Tool: toolCancelWorkout, Handler: h.cancelWorkout},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resOpenDrafts, Handler: h.openDrafts},
	)
	s.AddResourceTemplate(resDraftTemplate, h.draftByID)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	svc *editor.Service
	log *slog.Logger
}

// --- Resource definitions ---

var resOpenDrafts = mcp.NewResource(
	"setlog://drafts",
	"Open Drafts",
	mcp.WithResourceDescription("Every open workout draft with its state and enabled controls"),
	mcp.WithMIMEType("application/json"),
)

var resDraftTemplate = mcp.NewResourceTemplate(
	draftURIPrefix+"{id}",
	"Workout Draft",
	mcp.WithTemplateDescription("One workout draft by id"),
	mcp.WithTemplateMIMEType("application/json"),
)
