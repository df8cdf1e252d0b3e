package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/claude/setlog/internal/editor"
	"github.com/mark3labs/mcp-go/mcp"
)

const draftURIPrefix = "setlog://drafts/"

func (h *handlers) openDrafts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions := h.svc.Sessions()
	views := make([]editor.View, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, s.View())
	}
	return jsonContents(req.Params.URI, views)
}

func (h *handlers) draftByID(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, ok := strings.CutPrefix(req.Params.URI, draftURIPrefix)
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid draft URI %q", req.Params.URI)
	}
	s, err := h.svc.Session(id)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, s.View())
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
