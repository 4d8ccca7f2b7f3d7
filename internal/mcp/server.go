package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/pulsecoach/internal/coach"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
// Empty when the transport did not authenticate a user; tools then require
// an explicit user_id argument.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, cfg coach.Config, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("PulseCoach", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("PulseCoach heart-rate training server. Manage fitness profiles, calculate training zones, check heart-rate safety, get exercise recommendations, log workout sessions, and review progress analytics. All data is scoped per user."),
	)

	h := &handlers{ds: ds, cfg: cfg, catalog: coach.DefaultCatalog(), log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolCreateProfile, Handler: h.createProfile},
		server.ServerTool{Tool: toolGetProfile, Handler: h.getProfile},
		server.ServerTool{Tool: toolUpdateProfile, Handler: h.updateProfile},
		server.ServerTool{Tool: toolCalculateZones, Handler: h.calculateZones},
		server.ServerTool{Tool: toolCheckSafety, Handler: h.checkSafety},
		server.ServerTool{Tool: toolRecommendExercises, Handler: h.recommendExercises},
		server.ServerTool{Tool: toolLogSession, Handler: h.logSession},
		server.ServerTool{Tool: toolGetAnalytics, Handler: h.getAnalytics},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resSafetyGuidelines, Handler: h.safetyGuidelines},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds      DataSource
	cfg     coach.Config
	catalog []coach.Candidate
	log     *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"pulsecoach://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All catalog exercises with zone ranges, intensity, and contraindication tags"),
	mcp.WithMIMEType("application/json"),
)

var resSafetyGuidelines = mcp.NewResource(
	"pulsecoach://safety_guidelines",
	"Safety Guidelines",
	mcp.WithResourceDescription("Heart-rate safety thresholds and the guidance issued per condition"),
	mcp.WithMIMEType("application/json"),
)
