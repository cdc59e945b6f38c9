package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Controller struct {
	Handler *Handler
	router  *gin.Engine

	mu     sync.Mutex
	server *http.Server
}

func NewController(handler *Handler) *Controller {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/trackers", handler.GetTrackers)
		api.GET("/trackers/latest", handler.GetLatest)
		api.GET("/trackers/:tracker_id/history", handler.GetHistory)
		api.POST("/refresh", handler.Refresh)
	}

	return &Controller{Handler: handler, router: router}
}

func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.router.ServeHTTP(w, r)
}

// Run блокируется до остановки сервера через Shutdown
func (c *Controller) Run(port int32) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: c.router,
	}
	c.mu.Lock()
	c.server = server
	c.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ошибка работы API: %w", err)
	}
	return nil
}

func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	server := c.server
	c.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
