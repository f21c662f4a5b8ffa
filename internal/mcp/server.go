package mcp

import (
	"context"
	"log/slog"

	"github.com/Rahulvijayan123/workout-sub002/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, engineCfg engine.Config, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("WorkoutSub", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Strength progression decision server. Query lift states, e1RM history, next-load decisions, and coaching insights. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, engine: engineCfg, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetNextLoad, Handler: h.getNextLoad},
		server.ServerTool{Tool: toolGetInsights, Handler: h.getInsights},
		server.ServerTool{Tool: toolGetLiftState, Handler: h.getLiftState},
		server.ServerTool{Tool: toolGetE1RMHistory, Handler: h.getE1RMHistory},
		server.ServerTool{Tool: toolGetRecentSessions, Handler: h.getRecentSessions},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentTraining, Handler: h.recentTraining},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds     DataSource
	engine engine.Config
	log    *slog.Logger
}

// --- Resource definitions ---

var resRecentTraining = mcp.NewResource(
	"workoutsub://recent_training",
	"Recent Training",
	mcp.WithResourceDescription("Completed sessions from the last 14 days with per-exercise set results"),
	mcp.WithMIMEType("application/json"),
)
