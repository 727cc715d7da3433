package server

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zgpcy/watchface/internal/collector"
	"github.com/zgpcy/watchface/internal/config"
	"github.com/zgpcy/watchface/internal/dial"
	"github.com/zgpcy/watchface/internal/face"
	"github.com/zgpcy/watchface/internal/logger"
)

//go:embed templates/index.html
var indexTemplate string

var index = template.Must(template.New("index").Parse(indexTemplate))

// HTTP server timeout constants
const (
	DefaultReadTimeout  = 15 * time.Second // Maximum duration for reading the entire request
	DefaultWriteTimeout = 15 * time.Second // Maximum duration before timing out writes of the response
	DefaultIdleTimeout  = 60 * time.Second // Maximum amount of time to wait for the next request
	HeartbeatInterval   = 15 * time.Second // Comment line sent on idle event streams
)

// indexPageData holds template data for the index page
type indexPageData struct {
	StatusClass  string
	StatusText   string
	LastTick     string
	TickCount    uint64
	TickInterval int
	Timezone     string
	Faces        []template.HTML
}

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	faces   *collector.FaceCollector
	cfg     *config.Config
	logger  *logger.Logger
	metrics http.Handler

	// closing is cancelled on Shutdown so event streams end
	closing   context.Context
	// heartbeat is how long an event stream may stay silent
	heartbeat time.Duration
}

// NewServer creates a new HTTP server. HTTP metrics are registered on reg
// and /metrics serves reg; a nil reg uses the Prometheus default registry.
func NewServer(cfg *config.Config, faces *collector.FaceCollector, log *logger.Logger, reg *prometheus.Registry) *Server {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		metrics                          = promhttp.Handler()
	)
	if reg != nil {
		registerer = reg
		metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	r := chi.NewRouter()
	closing, stopStreams := context.WithCancel(context.Background())

	s := &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:      r,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			IdleTimeout:  DefaultIdleTimeout,
		},
		router:    r,
		faces:     faces,
		cfg:       cfg,
		logger:    log,
		metrics:   metrics,
		closing:   closing,
		heartbeat: HeartbeatInterval,
	}
	s.server.RegisterOnShutdown(stopStreams)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(newHTTPMetrics(registerer).Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Last-Event-ID"},
		MaxAge:         300,
	}))

	// Register handlers
	r.Get("/", s.handleIndex)
	r.Get("/face.svg", s.handleFace)
	r.Get("/events", s.handleEvents)
	r.Route("/api", func(r chi.Router) {
		r.Get("/angles", s.handleAngles)
		r.Get("/labels", s.handleLabels)
		r.Get("/labels/{hour}", s.handleLabel)
	})
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// handleIndex serves a page with one live face per configured size
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, ready := s.faces.Latest()
	statusClass := "not-ready"
	statusText := "Not Ready"
	if ready {
		statusClass = "ready"
		statusText = "Ready"
	}

	lastTick := s.faces.LastTickTime()
	lastTickText := "Never"
	if !lastTick.IsZero() {
		lastTickText = lastTick.Format("2006-01-02 15:04:05 MST")
	}

	data := indexPageData{
		StatusClass:  statusClass,
		StatusText:   statusText,
		LastTick:     lastTickText,
		TickCount:    s.faces.TickCount(),
		TickInterval: s.cfg.TickInterval,
		Timezone:     s.cfg.Timezone,
	}

	if ready {
		for _, size := range s.cfg.ClockSizes {
			svg, err := face.Build(s.cfg.FaceOptions(size), snap.Angles, snap.Time).SVG()
			if err != nil {
				s.logger.Error("Failed to render face", "size", size, "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			// #nosec G203 -- produced by our own template with escaped values
			data.Faces = append(data.Faces, template.HTML(svg))
		}
	}

	var buf bytes.Buffer
	if err := index.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to execute index template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("Failed to write index page", "error", err)
	}
}

// handleFace renders the current face as SVG
func (s *Server) handleFace(w http.ResponseWriter, r *http.Request) {
	q, err := parseFaceQuery(r, s.defaultSize())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	snap, ready := s.faces.Latest()
	if !ready {
		s.writeNotReady(w)
		return
	}

	var buf bytes.Buffer
	if err := face.Build(s.cfg.FaceOptions(q.Size), snap.Angles, snap.Time).WriteSVG(&buf); err != nil {
		s.logger.Error("Failed to render face", "size", q.Size, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", face.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("Failed to write face", "error", err)
	}
}

func (s *Server) defaultSize() float64 {
	if len(s.cfg.ClockSizes) > 0 {
		return s.cfg.ClockSizes[0]
	}
	return face.ReferenceSize
}

// handleAngles returns the latest snapshot
func (s *Server) handleAngles(w http.ResponseWriter, r *http.Request) {
	snap, ready := s.faces.Latest()
	if !ready {
		s.writeNotReady(w)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// handleLabels returns all twelve numeral positions
func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	q, err := parseLabelsQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	calc := dial.NewCalculator(dial.WithCenter(dial.Point{X: q.CX, Y: q.CY}))
	s.writeJSON(w, http.StatusOK, calc.LabelPositions(q.Radius))
}

// handleLabel returns one numeral position; the hour must be 1-12
func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	p, err := parseHourParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	q, err := parseLabelsQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	calc := dial.NewCalculator(dial.WithCenter(dial.Point{X: q.CX, Y: q.CY}))
	s.writeJSON(w, http.StatusOK, calc.LabelPosition(p.Hour, q.Radius))
}

// handleHealth handles health check requests (always returns 200 for liveness)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
		s.logger.Error("Failed to write health response", "error", err)
	}
}

// handleReady handles readiness check requests (returns 200 once the first tick ran)
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.faces.IsReady() {
		s.writeNotReady(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ready"}`)); err != nil {
		s.logger.Error("Failed to write ready response", "error", err)
	}
}

func (s *Server) writeNotReady(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	if _, err := w.Write([]byte(`{"status":"not ready","message":"waiting for first clock tick"}`)); err != nil {
		s.logger.Error("Failed to write ready response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}
