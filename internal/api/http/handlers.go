package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/asterix/internal/domain/navigation"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/GriffinCanCode/asterix/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "0.1.0"

// commandTimeout bounds how long a handler waits for the core to answer
const commandTimeout = 5 * time.Second

// Browser is the part of the core the REST API drives
type Browser interface {
	Submit(ctx context.Context, cmd types.Command) (types.CommandResult, error)
	Tabs() []types.TabSnapshot
	Snapshot(tab types.TabID) (types.TabSnapshot, error)
}

// Options wires optional collaborators into Handlers
type Options struct {
	Metrics  *monitoring.Metrics
	Gatherer prometheus.Gatherer
	Breakers func() map[string]resilience.State
}

// Handlers contains all HTTP handlers
type Handlers struct {
	browser  Browser
	metrics  *monitoring.Metrics
	gatherer prometheus.Gatherer
	breakers func() map[string]resilience.State
}

// NewHandlers creates a new handler set
func NewHandlers(browser Browser, opts Options) *Handlers {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	return &Handlers{
		browser:  browser,
		metrics:  opts.Metrics,
		gatherer: opts.Gatherer,
		breakers: opts.Breakers,
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	r.GET("/tabs", h.ListTabs)
	r.POST("/tabs", h.OpenTab)
	r.GET("/tabs/:id", h.GetTab)
	r.DELETE("/tabs/:id", h.CloseTab)
	r.POST("/tabs/:id/navigate", h.Navigate)
	r.POST("/tabs/:id/stop", h.Stop)
	r.POST("/tabs/:id/reload", h.Reload)
}

// Root reports that the service is up
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "asterix",
		"version": Version,
	})
}

// Health reports tab and fetch statistics
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status": "healthy",
		"tabs":   len(h.browser.Tabs()),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	if h.breakers != nil {
		states := make(map[string]string)
		for host, state := range h.breakers() {
			states[host] = state.String()
		}
		body["circuit_breakers"] = states
	}
	c.JSON(http.StatusOK, body)
}

// ListTabs lists every open tab, oldest first
func (h *Handlers) ListTabs(c *gin.Context) {
	tabs := h.browser.Tabs()
	c.JSON(http.StatusOK, gin.H{
		"tabs":  tabs,
		"count": len(tabs),
	})
}

// OpenTabRequest is the optional body of POST /tabs
type OpenTabRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// OpenTab opens a tab and, when a url is given, starts loading it
func (h *Handlers) OpenTab(c *gin.Context) {
	var req OpenTabRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := utils.ValidateString(req.Title, "title", 0, 512, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.URL != "" {
		if err := utils.ValidateURLInput(req.URL, "url"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	res, ok := h.submit(c, types.Command{Type: types.CommandOpenTab, Title: req.Title})
	if !ok {
		return
	}
	if req.URL != "" {
		if _, ok := h.submit(c, types.Navigate(res.Tab, req.URL)); !ok {
			return
		}
	}

	h.respondSnapshot(c, http.StatusCreated, res.Tab)
}

// GetTab returns one tab's snapshot
func (h *Handlers) GetTab(c *gin.Context) {
	tabID, ok := tabParam(c)
	if !ok {
		return
	}
	h.respondSnapshot(c, http.StatusOK, tabID)
}

// CloseTab closes a tab. Closing an unknown tab succeeds.
func (h *Handlers) CloseTab(c *gin.Context) {
	tabID, ok := tabParam(c)
	if !ok {
		return
	}
	if _, ok := h.submit(c, types.CloseTab(tabID)); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tab_id":  tabID,
	})
}

// NavigateRequest is the body of POST /tabs/:id/navigate
type NavigateRequest struct {
	URL string `json:"url" binding:"required"`
}

// Navigate points a tab at a url
func (h *Handlers) Navigate(c *gin.Context) {
	tabID, ok := tabParam(c)
	if !ok {
		return
	}

	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateURLInput(req.URL, "url"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := h.submit(c, types.Navigate(tabID, req.URL)); !ok {
		return
	}
	h.respondSnapshot(c, http.StatusAccepted, tabID)
}

// Stop cancels a tab's fetch
func (h *Handlers) Stop(c *gin.Context) {
	tabID, ok := tabParam(c)
	if !ok {
		return
	}
	if _, ok := h.submit(c, types.Stop(tabID)); !ok {
		return
	}
	h.respondSnapshot(c, http.StatusOK, tabID)
}

// Reload loads a tab's current url again
func (h *Handlers) Reload(c *gin.Context) {
	tabID, ok := tabParam(c)
	if !ok {
		return
	}
	if _, ok := h.submit(c, types.Reload(tabID)); !ok {
		return
	}
	h.respondSnapshot(c, http.StatusAccepted, tabID)
}

// submit runs cmd through the core and writes the error response on failure
func (h *Handlers) submit(c *gin.Context, cmd types.Command) (types.CommandResult, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
	defer cancel()

	res, err := h.browser.Submit(ctx, cmd)
	if err != nil {
		respondError(c, err)
		return res, false
	}
	return res, true
}

func (h *Handlers) respondSnapshot(c *gin.Context, status int, tabID types.TabID) {
	snap, err := h.browser.Snapshot(tabID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, snap)
}

func tabParam(c *gin.Context) (types.TabID, bool) {
	tab := c.Param("id")
	if err := utils.ValidateTabID(tab, "tab_id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return types.TabID(tab), true
}

// StatusFor maps a core error onto an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, navigation.ErrTabNotFound):
		return http.StatusNotFound
	case errors.Is(err, navigation.ErrInvalidURL),
		errors.Is(err, navigation.ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, navigation.ErrNothingToReload):
		return http.StatusConflict
	case errors.Is(err, navigation.ErrShutdown):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(StatusFor(err), gin.H{"error": err.Error()})
}
