package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ChartDesk/internal/model"
	"ChartDesk/internal/recorder"
)

const (
	DefaultTimeout      = 30 * time.Second
	ServiceName         = "chartdesk"
	ServiceVersion      = "1.0.0"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
	DefaultHistoryLimit = 50
)

// Engine is the indicator engine as seen by the HTTP layer.
type Engine interface {
	ComputeSnapshot(ctx context.Context, ticker string, tf model.Timeframe) (*model.IndicatorSnapshot, error)
	ComputeChart(ctx context.Context, ticker string, tf model.Timeframe) (*model.ChartData, error)
	ComputeWatchlist(ctx context.Context, tickers []string, tf model.Timeframe) []model.WatchItem
}

// Options configures the handler's defaults.
type Options struct {
	DefaultTimeframe   model.Timeframe
	Watchlist          []string
	WatchlistTimeframe model.Timeframe
}

// Handler serves the dashboard data over HTTP using gin.
type Handler struct {
	engine   Engine
	recorder recorder.Recorder
	opts     Options
}

// NewHandler creates a new API handler. A nil recorder disables journaling.
func NewHandler(engine Engine, rec recorder.Recorder, opts Options) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if opts.DefaultTimeframe == "" {
		opts.DefaultTimeframe = model.Timeframe1d
	}
	if opts.WatchlistTimeframe == "" {
		opts.WatchlistTimeframe = opts.DefaultTimeframe
	}
	return &Handler{engine: engine, recorder: rec, opts: opts}
}

// Routes configures all API routes.
func (h *Handler) Routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	v1 := router.Group("/api/v1")
	v1.GET("/snapshot", h.GetSnapshot)
	v1.GET("/chart", h.GetChart)
	v1.GET("/watchlist", h.GetWatchlist)
	v1.GET("/history", h.GetHistory)

	router.GET("/health", h.HealthCheck)
	return router
}

// Server wraps the routes in an http.Server listening on port.
func (h *Handler) Server(port int) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      DefaultTimeout + 5*time.Second,
	}
}
