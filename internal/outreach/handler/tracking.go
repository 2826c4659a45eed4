package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mesour/brick-offers-sub007/internal/outreach/service"
	"github.com/mesour/brick-offers-sub007/platform/logger"
)

// transparentGIF is a 1x1 transparent pixel served by the open tracker.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackingHandler serves the public, unauthenticated tracking endpoints
// referenced from sent emails. Tokens are opaque; the endpoints never reveal
// whether a token matched anything.
type TrackingHandler struct {
	svc *service.Service
	log *logger.Logger
}

// NewTracking creates the tracking handler.
func NewTracking(svc *service.Service, log *logger.Logger) *TrackingHandler {
	return &TrackingHandler{svc: svc, log: log}
}

// RegisterRoutes mounts the tracking routes directly on the engine, outside
// the versioned API and its auth middleware.
func (h *TrackingHandler) RegisterRoutes(engine *gin.Engine) {
	t := engine.Group("/t")
	t.GET("/o/:token", h.Open)
	t.GET("/c/:token", h.Click)
	t.GET("/u/:token", h.Unsubscribe)
}

// Open records an email open and serves the tracking pixel. The pixel is
// returned regardless of outcome so broken tokens do not show up as broken
// images in mail clients.
// GET /t/o/:token.gif
func (h *TrackingHandler) Open(c *gin.Context) {
	token := strings.TrimSuffix(c.Param("token"), ".gif")
	if err := h.svc.TrackOpen(c.Request.Context(), token, c.GetHeader("User-Agent")); err != nil {
		h.log.Debug("open tracking failed", "error", err)
	}
	c.Header("Cache-Control", "no-store, must-revalidate")
	c.Data(http.StatusOK, "image/gif", transparentGIF)
}

// Click records a click and redirects to the offer's target URL.
// GET /t/c/:token
func (h *TrackingHandler) Click(c *gin.Context) {
	target, err := h.svc.TrackClick(c.Request.Context(), c.Param("token"), c.GetHeader("User-Agent"))
	if err != nil || target == "" {
		c.String(http.StatusNotFound, "link not found")
		return
	}
	c.Redirect(http.StatusFound, target)
}

// Unsubscribe suppresses the recipient's address and shows a confirmation.
// GET /t/u/:token
func (h *TrackingHandler) Unsubscribe(c *gin.Context) {
	if err := h.svc.Unsubscribe(c.Request.Context(), c.Param("token")); err != nil {
		c.String(http.StatusNotFound, "link not found")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(unsubscribePage))
}

const unsubscribePage = `<!DOCTYPE html>
<html>
<head><title>Unsubscribed</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 60px 20px;">
<h1>You have been unsubscribed</h1>
<p>You will not receive any further emails from us.</p>
</body>
</html>`
