package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"mcpsync/internal/engine"
)

// jsonResult marshals v as an indented JSON tool payload.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

type targetInfo struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Field         string   `json:"field"`
	WritePath     string   `json:"writePath"`
	Candidates    []string `json:"candidates"`
	Exists        bool     `json:"exists"`
	SafeToRestart bool     `json:"safeToRestart"`
}

func (s *Server) handleListTargets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := make([]targetInfo, 0, len(s.sources))
	for _, src := range s.sources {
		desc, ok := s.config.Descriptor(src.TargetID)
		if !ok {
			continue
		}
		_, statErr := os.Stat(src.WritePath)
		infos = append(infos, targetInfo{
			ID:            desc.ID,
			Name:          desc.Name,
			Field:         desc.Field,
			WritePath:     src.WritePath,
			Candidates:    src.Candidates,
			Exists:        statErr == nil,
			SafeToRestart: desc.SafeToRestart,
		})
	}
	return jsonResult(infos)
}

type previewPayload struct {
	Plan     *engine.SyncPlan    `json:"plan"`
	Warnings map[string][]string `json:"warnings,omitempty"`
}

// preview runs the engine preview and splits out the per-target read
// warnings, which every mutating tool reports alongside its result.
func (s *Server) preview(ctx context.Context) (*engine.SyncPlan, map[string][]string, error) {
	plan, state, err := s.engine.Preview(ctx, s.sources, s.config.Policies, s.config.PreserveUnmanagedOrDefault())
	if err != nil {
		return nil, nil, err
	}

	warnings := make(map[string][]string)
	for id, result := range state {
		if len(result.Warnings) > 0 {
			warnings[id] = result.Warnings
		}
	}
	return plan, warnings, nil
}

func (s *Server) handlePreviewSync(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, warnings, err := s.preview(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("preview failed: %v", err)), nil
	}
	return jsonResult(previewPayload{Plan: plan, Warnings: warnings})
}

type applyPayload struct {
	RevisionID string                    `json:"revisionId,omitempty"`
	Applied    []engine.AppliedOperation `json:"applied,omitempty"`
	Message    string                    `json:"message,omitempty"`
	Warnings   map[string][]string       `json:"warnings,omitempty"`
}

func (s *Server) handleApplySync(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, warnings, err := s.preview(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("preview failed: %v", err)), nil
	}
	if plan.TotalOperations == 0 {
		return jsonResult(applyPayload{Message: "everything in sync", Warnings: warnings})
	}

	result, err := s.engine.Apply(ctx, plan)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("apply failed: %v", err)), nil
	}
	return jsonResult(applyPayload{
		RevisionID: result.RevisionID,
		Applied:    result.Applied,
		Warnings:   warnings,
	})
}

func (s *Server) handleRevisionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(mcp.ParseFloat64(request, "limit", 10))
	if limit < 0 {
		limit = 0
	}

	revisions, err := s.engine.History(limit)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("history failed: %v", err)), nil
	}
	return jsonResult(revisions)
}

func (s *Server) handleRevertRevision(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	revisionID := mcp.ParseString(request, "revision_id", "")
	if revisionID == "" {
		return mcp.NewToolResultText("revision_id is required"), nil
	}

	result, err := s.engine.Revert(revisionID)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("revert failed: %v", err)), nil
	}
	return jsonResult(result)
}
