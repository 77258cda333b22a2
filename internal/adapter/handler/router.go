package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-notes/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	workspaceHandler *Workspace
	aiHandler        *AI
	exportHandler    *Export
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, workspaceHandler *Workspace, aiHandler *AI, exportHandler *Export) *Router {
	return &Router{
		cfg:              cfg,
		workspaceHandler: workspaceHandler,
		aiHandler:        aiHandler,
		exportHandler:    exportHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupWorkspaceRoutes(v1)
	rt.setupAIRoutes(v1)
	rt.setupExportRoutes(v1)
}

// setupWorkspaceRoutes configures history and draft routes
func (rt *Router) setupWorkspaceRoutes(g *echo.Group) {
	if rt.workspaceHandler == nil {
		return
	}
	h := rt.workspaceHandler

	g.GET("/workspace", h.GetWorkspace)
	g.POST("/workspace/select", h.Select)

	draft := g.Group("/draft")
	draft.POST("", h.StartDraft)
	draft.POST("/edit", h.EditDraft)
	draft.PUT("/sections/:key", h.EditSection)
	draft.PUT("/date", h.EditDate)
	draft.POST("/save", h.SaveDraft)
	draft.POST("/cancel", h.CancelEdit)
	draft.POST("/publish", h.PublishDraft)

	g.DELETE("/meetings/:id", h.DeleteMeeting)
}

// setupAIRoutes configures content generation routes
func (rt *Router) setupAIRoutes(g *echo.Group) {
	aiGroup := g.Group("/ai")

	if rt.aiHandler != nil {
		aiGroup.POST("/summary", rt.aiHandler.Summarize)
		aiGroup.POST("/actions", rt.aiHandler.SuggestActions)
		aiGroup.POST("/prefill", rt.aiHandler.Prefill)
	} else {
		aiGroup.POST("/summary", rt.notImplemented)
		aiGroup.POST("/actions", rt.notImplemented)
		aiGroup.POST("/prefill", rt.notImplemented)
	}
}

// setupExportRoutes configures plain-text export routes
func (rt *Router) setupExportRoutes(g *echo.Group) {
	if rt.exportHandler == nil {
		return
	}
	g.POST("/exports", rt.exportHandler.ExportText)
	g.GET("/meetings/:id/export", rt.exportHandler.ExportMeeting)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	body := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if rt.cfg != nil {
		body["environment"] = rt.cfg.Server.Environment
		body["backend"] = rt.cfg.Backend.Type
	}
	return c.JSON(http.StatusOK, body)
}
