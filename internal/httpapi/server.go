// Package httpapi serves the solver over HTTP.
//
// Routes:
//
//	POST /api/v1/solve      solve synchronously, 200 with a report.Document
//	POST /api/v1/jobs       enqueue an asynchronous solve, 202 with Location
//	                        (429 while MaxJobs solves are in flight)
//	GET  /api/v1/jobs/{id}  job status and, once finished, its result
//	GET  /healthz           liveness
//	GET  /metrics           Prometheus exposition
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/katalvlaran/zonealloc/alloc"
	"github.com/katalvlaran/zonealloc/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config wires a Server.
type Config struct {
	// Options are the solver defaults; requests may override some fields.
	Options alloc.Options

	Logger logr.Logger

	// Metrics records every solve when non-nil.
	Metrics *metrics.Metrics

	// Gatherer backs /metrics. nil disables the route.
	Gatherer prometheus.Gatherer

	// MaxBodyBytes caps request bodies. 0 selects 8 MiB.
	MaxBodyBytes int64

	// RequestTimeout bounds synchronous requests. 0 selects 60s.
	RequestTimeout time.Duration

	// MaxCells caps resources × zones per request. 0 selects DefaultMaxCells.
	MaxCells int

	// MaxWorkers caps the per-request workers override. 0 selects GOMAXPROCS.
	MaxWorkers int

	// MaxJobs caps asynchronous solves in flight. 0 selects 4.
	MaxJobs int

	// JobTTL is how long finished jobs stay readable. 0 selects 1h.
	JobTTL time.Duration

	// MaxStoredJobs caps finished jobs kept in memory. 0 selects 1024.
	MaxStoredJobs int
}

// DefaultMaxCells bounds the dense relaxation tableau per request.
const DefaultMaxCells = 50_000

// Server is the HTTP front end. Close cancels running jobs and waits for them.
type Server struct {
	cfg    Config
	log    logr.Logger
	jobs   *JobStore
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	slots  *semaphore.Weighted
}

// NewServer returns a Server with an empty job store.
func NewServer(cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 8 << 20
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.MaxCells <= 0 {
		cfg.MaxCells = DefaultMaxCells
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxJobs <= 0 {
		cfg.MaxJobs = 4
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = time.Hour
	}
	if cfg.MaxStoredJobs <= 0 {
		cfg.MaxStoredJobs = 1024
	}
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = logr.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:    cfg,
		log:    cfg.Logger.WithName("httpapi"),
		jobs:   NewJobStore(cfg.JobTTL, cfg.MaxStoredJobs),
		ctx:    ctx,
		cancel: cancel,
		slots:  semaphore.NewWeighted(int64(cfg.MaxJobs)),
	}
}

// Jobs exposes the job store.
func (s *Server) Jobs() *JobStore { return s.jobs }

// Handler builds the root router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "use a versioned path like /api/v1/solve")
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.With(middleware.Timeout(s.cfg.RequestTimeout)).Post("/solve", s.solve)
		api.Post("/jobs", s.createJob)
		api.Get("/jobs/{jobID}", s.getJob)
	})

	return r
}

// requestLogger logs one line per request at V(1).
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.V(1).Info("request",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"bytes", ww.BytesWritten(), "elapsed", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()))
	})
}

// Close cancels running jobs and waits for their goroutines.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

// ListenAndServe serves on addr until ctx is done, then shuts down within
// shutdownTimeout and closes the server.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		s.Close()

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	s.log.Info("stopped", "addr", addr)

	return err
}
