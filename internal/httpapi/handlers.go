package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/katalvlaran/zonealloc/alloc"
	"github.com/katalvlaran/zonealloc/bnb"
	"github.com/katalvlaran/zonealloc/instance"
	"github.com/katalvlaran/zonealloc/metrics"
	"github.com/katalvlaran/zonealloc/report"
)

// SolveRequest is the body of /solve and /jobs: an instance plus optional
// solver overrides.
type SolveRequest struct {
	instance.Instance
	Options *OptionsOverride `json:"options,omitempty"`
}

// OptionsOverride narrows the server's solver defaults for one request.
type OptionsOverride struct {
	TimeLimitMS int64  `json:"time_limit_ms,omitempty"`
	NodeLimit   int    `json:"node_limit,omitempty"`
	Workers     int    `json:"workers,omitempty"`
	Backend     string `json:"backend,omitempty"`
	Branching   string `json:"branching,omitempty"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, reason, msg string) {
	writeJSON(w, code, errorBody{Error: reason, Message: msg})
}

// statusFor maps a solve error onto an HTTP status and reason.
func statusFor(err error) (int, string) {
	reason := metrics.Reason(err)
	switch reason {
	case "invalid_input":
		return http.StatusBadRequest, reason
	case "infeasible":
		return http.StatusUnprocessableEntity, reason
	case "limit":
		return http.StatusServiceUnavailable, reason
	default:
		return http.StatusInternalServerError, reason
	}
}

// decode reads and validates a SolveRequest and resolves its options.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*SolveRequest, alloc.Options, bool) {
	var req SolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("decode body: %v", err))

		return nil, alloc.Options{}, false
	}
	if err := req.Instance.Validate(); err != nil {
		code, reason := statusFor(err)
		if errors.Is(err, instance.ErrNames) {
			code, reason = http.StatusBadRequest, "invalid_input"
		}
		writeError(w, code, reason, err.Error())

		return nil, alloc.Options{}, false
	}
	if cells := len(req.Cost) * len(req.Capacity); cells > s.cfg.MaxCells {
		writeError(w, http.StatusBadRequest, "invalid_input",
			fmt.Sprintf("%d resources × %d zones exceeds the %d cell limit", len(req.Cost), len(req.Capacity), s.cfg.MaxCells))

		return nil, alloc.Options{}, false
	}
	opts, err := s.options(req.Options)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())

		return nil, alloc.Options{}, false
	}

	return &req, opts, true
}

// options applies an override to the server defaults.
func (s *Server) options(o *OptionsOverride) (alloc.Options, error) {
	opts := s.cfg.Options
	opts.Logger = s.log
	if o == nil {
		return opts, nil
	}
	if o.TimeLimitMS < 0 || o.NodeLimit < 0 || o.Workers < 0 {
		return alloc.Options{}, fmt.Errorf("%w: negative override", alloc.ErrInvalidOptions)
	}
	if o.TimeLimitMS > 0 {
		opts.TimeLimit = time.Duration(o.TimeLimitMS) * time.Millisecond
	}
	if o.NodeLimit > 0 {
		opts.NodeLimit = o.NodeLimit
	}
	if o.Workers > s.cfg.MaxWorkers {
		return alloc.Options{}, fmt.Errorf("%w: workers %d above limit %d", alloc.ErrInvalidOptions, o.Workers, s.cfg.MaxWorkers)
	}
	if o.Workers > 0 {
		opts.Workers = o.Workers
	}
	if o.Backend != "" {
		b, err := alloc.ParseBackend(o.Backend)
		if err != nil {
			return alloc.Options{}, err
		}
		opts.Backend = b
	}
	if o.Branching != "" {
		b, err := bnb.ParseBranching(o.Branching)
		if err != nil {
			return alloc.Options{}, fmt.Errorf("%w: %w", alloc.ErrInvalidOptions, err)
		}
		opts.Branching = b
	}

	return opts, opts.Validate()
}

// run solves one request and records metrics.
func (s *Server) run(ctx context.Context, in *instance.Instance, opts alloc.Options) (report.Document, error) {
	start := time.Now()
	sol, err := alloc.Solve(ctx, in.Cost, in.Capacity, opts)
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.Observe(sol, err, time.Since(start))
	}
	if err != nil {
		return report.Document{}, err
	}

	return report.Build(in, sol), nil
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	req, opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	doc, err := s.run(r.Context(), &req.Instance, opts)
	if err != nil {
		code, reason := statusFor(err)
		writeError(w, code, reason, err.Error())

		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	req, opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	if !s.slots.TryAcquire(1) {
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "busy",
			fmt.Sprintf("%d jobs already running", s.cfg.MaxJobs))

		return
	}
	job := s.jobs.Enqueue()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.slots.Release(1)
		s.jobs.MarkRunning(job.ID)
		doc, err := s.run(s.ctx, &req.Instance, opts)
		if err != nil {
			_, reason := statusFor(err)
			s.jobs.MarkFailed(job.ID, reason, err.Error())
			s.log.V(1).Info("job failed", "job", job.ID, "reason", reason, "error", err.Error())

			return
		}
		s.jobs.MarkSucceeded(job.ID, doc)
		s.log.V(1).Info("job succeeded", "job", job.ID, "totalCost", doc.TotalCost)
	}()

	w.Header().Set("Location", "/api/v1/jobs/"+job.ID)
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(chi.URLParam(r, "jobID"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown job")

		return
	}
	writeJSON(w, http.StatusOK, job)
}
