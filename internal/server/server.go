// Package server exposes the decode pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/pktdecode/internal/config"
	"github.com/danmuck/pktdecode/internal/observability"
	"github.com/danmuck/pktdecode/internal/pipeline"
	"github.com/danmuck/pktdecode/internal/protocol/packet"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

type Node struct {
	ID       string    `json:"id"`
	Addr     string    `json:"addr"`
	Appeared time.Time `json:"appeared"`

	processor *pipeline.Processor
	maxBatch  int
	router    *gin.Engine
}

type decodeRequest struct {
	Transmission string `json:"transmission"`
}

type batchRequest struct {
	Transmissions []string `json:"transmissions"`
}

type decodeResponse struct {
	pipeline.Result
	Tree string `json:"tree,omitempty"`
}

func New(cfg config.ServerConfig, processor *pipeline.Processor) *Node {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger, cfg.ID))
	r.Use(observability.RequestMetricsMiddleware(cfg.ID))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Node{
		ID:        cfg.ID,
		Addr:      cfg.Addr,
		Appeared:  time.Now(),
		processor: processor,
		maxBatch:  cfg.MaxBatch,
		router:    r,
	}
}

func (n *Node) HTTPRouter() *gin.Engine {
	return n.router
}

func (n *Node) RegisterRoutes() {
	n.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(n.Appeared).String(),
			"service": n.ID,
			"version": "0.1.0",
		})
	})

	n.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   n.processor != nil,
			"service": n.ID,
		})
	})

	n.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	n.router.POST("/decode", n.handleDecode)
	n.router.POST("/decode/batch", n.handleBatch)
}

// handleDecode answers 200 for a decoded and evaluated transmission and 422
// when any stage failed; the body is the result either way.
func (n *Node) handleDecode(c *gin.Context) {
	var req decodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	res := n.processor.Process(pipeline.Input{Line: 1, Transmission: strings.TrimSpace(req.Transmission)})

	body := decodeResponse{Result: res}
	if wantTree(c) && res.Packet != nil {
		body.Tree = packet.Dump(res.Packet)
	}
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, body)
}

func (n *Node) handleBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Transmissions) > n.maxBatch {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "too many transmissions",
			"limit": n.maxBatch,
		})
		return
	}

	inputs := make([]pipeline.Input, len(req.Transmissions))
	for i, tx := range req.Transmissions {
		inputs[i] = pipeline.Input{Line: i + 1, Transmission: strings.TrimSpace(tx)}
	}
	results, err := n.processor.Batch(c.Request.Context(), inputs)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	tree := wantTree(c)
	out := make([]decodeResponse, len(results))
	for i, res := range results {
		out[i] = decodeResponse{Result: res}
		if tree && res.Packet != nil {
			out[i].Tree = packet.Dump(res.Packet)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"results": out,
		"failed":  pipeline.Failed(results),
	})
}

// Serve runs the node until ctx is done, then shuts down gracefully.
func (n *Node) Serve(ctx context.Context) error {
	n.RegisterRoutes()
	srv := &http.Server{Addr: n.Addr, Handler: n.router}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("id", n.ID).Str("addr", n.Addr).Msg("decoder node listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Str("id", n.ID).Msg("decoder node stopped")
	return nil
}

func wantTree(c *gin.Context) bool {
	switch strings.ToLower(c.Query("tree")) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
