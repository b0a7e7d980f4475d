// Package server exposes the describe pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KaramelBytes/csvstats/internal/analysis"
	"github.com/KaramelBytes/csvstats/internal/config"
	"github.com/KaramelBytes/csvstats/internal/dataset"
	"github.com/KaramelBytes/csvstats/internal/report"
)

// Options configures a Server.
type Options struct {
	Addr           string
	MaxUploadBytes int64
	Analysis       analysis.Options
	Delimiter      rune
	Logger         *zap.Logger
}

// Server serves POST /v1/describe and GET /healthz.
type Server struct {
	router *gin.Engine
	opt    Options
	log    *zap.Logger
}

// New builds the router. gin's mode is left to the caller.
func New(opt Options) *Server {
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	if opt.MaxUploadBytes <= 0 {
		opt.MaxUploadBytes = 32 << 20
	}
	s := &Server{router: gin.New(), opt: opt, log: opt.Logger}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/v1/describe", s.handleDescribe)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens on opt.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opt.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.opt.Addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.opt.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDescribe(c *gin.Context) {
	opt, delim, err := s.queryOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opt.MaxUploadBytes)
	name, data, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("body exceeds %d bytes", s.opt.MaxUploadBytes),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := dataset.LoadBytes(name, data, dataset.LoadOptions{
		Delimiter: delim,
		Sheet:     c.Query("sheet"),
		Logger:    s.log,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t.Name = name

	doc, err := report.Describe(t, c.QueryArray("group_by"), opt)
	if err != nil {
		s.log.Debug("describe failed", zap.String("source", name), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.log.Info("described",
		zap.String("run_id", doc.RunID.String()),
		zap.String("source", name),
		zap.Int("rows", doc.Rows),
		zap.Int("sections", len(doc.Sections)),
	)
	c.JSON(http.StatusOK, doc)
}

// queryOptions overlays the request's query parameters on the server defaults.
func (s *Server) queryOptions(c *gin.Context) (analysis.Options, rune, error) {
	opt := s.opt.Analysis
	delim := s.opt.Delimiter
	for key, dst := range map[string]*int{"max_groups": &opt.MaxGroups, "max_values": &opt.MaxValues} {
		raw, ok := c.GetQuery(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opt, 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
		}
		*dst = n
	}
	if raw, ok := c.GetQuery("delimiter"); ok {
		d, err := config.ParseDelimiter(raw)
		if err != nil {
			return opt, 0, err
		}
		delim = d
	}
	return opt, delim, nil
}

// readUpload returns the uploaded file name and bytes. Multipart requests
// carry the data in field "file"; anything else is the raw body.
func readUpload(c *gin.Context) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if mediaType == "multipart/form-data" {
		fh, err := c.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("form field file: %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return "", nil, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, fmt.Errorf("read upload: %w", err)
		}
		return fh.Filename, data, nil
	}
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read body: %w", err)
	}
	name := c.DefaultQuery("filename", "upload.csv")
	return name, data, nil
}
