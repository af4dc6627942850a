package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ChartDesk/internal/collector"
	"ChartDesk/internal/model"
	"ChartDesk/internal/recorder"
)

func (h *Handler) timeframe(c *gin.Context) model.Timeframe {
	if v := c.Query("timeframe"); v != "" {
		return model.ParseTimeframe(v)
	}
	return h.opts.DefaultTimeframe
}

// GetSnapshot handles GET /api/v1/snapshot
func (h *Handler) GetSnapshot(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	snap, err := h.engine.ComputeSnapshot(ctx, c.Query("ticker"), h.timeframe(c))
	if err != nil {
		h.handleEngineError(c, err)
		return
	}
	if err := h.recorder.RecordSnapshot(recorder.SourceAPI, snap); err != nil {
		log.Printf("[ERROR] record snapshot %s: %v", snap.Ticker, err)
	}
	c.JSON(http.StatusOK, snap)
}

// GetChart handles GET /api/v1/chart
func (h *Handler) GetChart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	chart, err := h.engine.ComputeChart(ctx, c.Query("ticker"), h.timeframe(c))
	if err != nil {
		h.handleEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

// GetWatchlist handles GET /api/v1/watchlist
func (h *Handler) GetWatchlist(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	tf := h.opts.WatchlistTimeframe
	if v := c.Query("timeframe"); v != "" {
		tf = model.ParseTimeframe(v)
		if err := collector.ValidateTimeframe(tf); err != nil {
			h.handleError(c, err, http.StatusBadRequest, err.Error())
			return
		}
	}
	items := h.engine.ComputeWatchlist(ctx, h.opts.Watchlist, tf)
	c.JSON(http.StatusOK, gin.H{
		"timeframe": tf,
		"items":     items,
	})
}

// GetHistory handles GET /api/v1/history
func (h *Handler) GetHistory(c *gin.Context) {
	limit := DefaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > recorder.MaxHistory {
			h.handleError(c, errors.New("invalid limit"), http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	ticker := c.Query("ticker")
	if ticker != "" {
		t, err := collector.NormalizeTicker(ticker)
		if err != nil {
			h.handleError(c, err, http.StatusBadRequest, err.Error())
			return
		}
		ticker = t
	}

	recs, err := h.recorder.History(ticker, limit)
	if err != nil {
		h.handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}
	if recs == nil {
		recs = []recorder.SnapshotRecord{}
	}
	c.JSON(http.StatusOK, recs)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// StatusFor maps an engine error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, collector.ErrDataUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleEngineError(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	h.handleError(c, err, status, msg)
}

// handleError logs the error and sends the JSON error body.
func (h *Handler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	requestID := c.GetString(RequestIDContextKey)
	if requestID == "" {
		requestID = "unknown"
	}

	log.Printf("[WARN] request_id=%s %s %s status=%d: %v",
		requestID, c.Request.Method, c.Request.URL.Path, statusCode, err)

	c.JSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": requestID,
	})
}
