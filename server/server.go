// Package server exposes a loaded index over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ic-timon/flatbush/indexer"
)

const requestIDHeader = "X-Request-ID"

// Server serves queries against one Index. The Index is shared by all
// requests and must outlive the Server.
type Server struct {
	cfg    *Config
	idx    *indexer.Index
	log    *zap.Logger
	engine *gin.Engine
}

// New builds the router for idx. log may be nil.
func New(idx *indexer.Index, cfg *Config, log *zap.Logger) (*Server, error) {
	cfg = cfg.OrDefault()
	if log == nil {
		log = zap.NewNop()
	}
	if err := registerValidators(); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Mode)

	s := &Server{cfg: cfg, idx: idx, log: log, engine: gin.New()}
	s.engine.Use(requestID(), s.accessLog(), gin.Recovery())
	s.engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	v1 := s.engine.Group("/v1")
	v1.GET("/search", s.handleSearch)
	v1.GET("/neighbors", s.handleNeighbors)
	v1.GET("/info", s.handleInfo)
	return s, nil
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type searchRequest struct {
	MinX *float64 `form:"min_x" binding:"required,finite"`
	MinY *float64 `form:"min_y" binding:"required,finite"`
	MaxX *float64 `form:"max_x" binding:"required,finite,gtefield=MinX"`
	MaxY *float64 `form:"max_y" binding:"required,finite,gtefield=MinY"`
}

type searchResponse struct {
	IDs       []int `json:"ids"`
	Count     int   `json:"count"`
	Truncated bool  `json:"truncated,omitempty"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	q := indexer.Box{MinX: *req.MinX, MinY: *req.MinY, MaxX: *req.MaxX, MaxY: *req.MaxY}

	ids := []int{}
	truncated := false
	s.idx.SearchFunc(q, func(id int) bool {
		if len(ids) == s.cfg.MaxResults {
			truncated = true
			return false
		}
		ids = append(ids, id)
		return true
	})
	c.JSON(http.StatusOK, searchResponse{IDs: ids, Count: len(ids), Truncated: truncated})
}

type neighborsRequest struct {
	X           *float64 `form:"x" binding:"required,finite"`
	Y           *float64 `form:"y" binding:"required,finite"`
	K           int      `form:"k" binding:"omitempty,min=1"`
	MaxDistance float64  `form:"max_distance" binding:"omitempty,finite,gt=0"`
}

func (s *Server) handleNeighbors(c *gin.Context) {
	var req neighborsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	k := req.K
	if k == 0 || k > s.cfg.MaxResults {
		k = s.cfg.MaxResults
	}
	ids := s.idx.Neighbors(*req.X, *req.Y, k, req.MaxDistance)
	if ids == nil {
		ids = []int{}
	}
	c.JSON(http.StatusOK, searchResponse{IDs: ids, Count: len(ids)})
}

type extentJSON struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

type infoResponse struct {
	Items    int         `json:"items"`
	NodeSize int         `json:"node_size"`
	Nodes    int         `json:"nodes"`
	Bytes    int         `json:"bytes"`
	Extent   *extentJSON `json:"extent,omitempty"`
}

func (s *Server) handleInfo(c *gin.Context) {
	resp := infoResponse{
		Items:    s.idx.NumItems(),
		NodeSize: s.idx.NodeSize(),
		Nodes:    s.idx.NumNodes(),
		Bytes:    len(s.idx.Bytes()),
	}
	// an empty index has an infinite extent, which JSON cannot carry
	if e := s.idx.Extent(); !e.IsEmpty() {
		resp.Extent = &extentJSON{MinX: e.MinX, MinY: e.MinY, MaxX: e.MaxX, MaxY: e.MaxY}
	}
	c.JSON(http.StatusOK, resp)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Error:     validationMessage(err),
		RequestID: c.GetString(requestIDHeader),
	})
}

// requestID propagates or assigns an X-Request-ID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDHeader)))
	}
}
