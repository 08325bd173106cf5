// Package mcp exposes the sync engine as a Model Context Protocol (MCP)
// server using the mcp-go library.
//
// The server communicates via stdin/stdout using JSON-RPC 2.0 as specified
// by the MCP standard and registers one tool per engine operation, so an AI
// assistant drives exactly the same guarded path as the CLI: preview first,
// apply with backups and a recorded revision, inspect history, revert.
package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mcpsync/internal/config"
	"mcpsync/internal/engine"
	"mcpsync/internal/logging"
)

// Server represents an MCP server instance over an assembled engine.
type Server struct {
	config    *config.Config
	engine    *engine.Engine
	sources   []engine.TargetSource
	logger    *logging.AppLogger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.Config, eng *engine.Engine, sources []engine.TargetSource, logger *logging.AppLogger) *Server {
	return &Server{
		config:  cfg,
		engine:  eng,
		sources: sources,
		logger:  logger,
	}
}

// Start initializes the MCP server and serves on stdio until the client
// disconnects.
func (s *Server) Start() error {
	s.logger.Info("Initializing MCP server")

	s.mcpServer = server.NewMCPServer(
		"mcpsync",
		"1.0.0",
		server.WithLogging(),
	)
	s.registerTools()

	s.logger.Info("MCP server created, starting stdio communication")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_targets",
		mcp.WithDescription("List every managed target, its config file locations, and whether the file exists."),
	), s.handleListTargets)

	s.mcpServer.AddTool(mcp.NewTool("preview_sync",
		mcp.WithDescription("Compute the sync plan without changing anything. Returns per-target add/update/remove operations and any read warnings."),
	), s.handlePreviewSync)

	s.mcpServer.AddTool(mcp.NewTool("apply_sync",
		mcp.WithDescription("Reconcile every target with the declared policies. Each touched file is backed up first; the pass is recorded as one revertible revision."),
	), s.handleApplySync)

	s.mcpServer.AddTool(mcp.NewTool("revision_history",
		mcp.WithDescription("List applied revisions, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum revisions to return (default 10, 0 for all).")),
	), s.handleRevisionHistory)

	s.mcpServer.AddTool(mcp.NewTool("revert_revision",
		mcp.WithDescription("Restore the backups recorded under a revision id. Entries whose backup is gone are reported and skipped."),
		mcp.WithString("revision_id", mcp.Required(), mcp.Description("A revision id from revision_history.")),
	), s.handleRevertRevision)
}
