// Package server exposes the simulation core over HTTP: configuration
// uploads run through the cache-fronted simulator, and a separate endpoint
// runs the maximum-withdrawal solver (never cached).
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/retirement-forecast/internal/cache"
	"github.com/iwvelando/retirement-forecast/internal/config"
	"github.com/iwvelando/retirement-forecast/internal/simulation"
	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	cache         *cache.Cache
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the simulation API.
// The cache may be nil, in which case every request recomputes.
func NewHandler(logger *zap.Logger, resultCache *cache.Cache, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		cache:         resultCache,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
	}

	mux := http.NewServeMux()

	// Simulation endpoint (YAML config upload)
	mux.HandleFunc("/api/simulate", h.handleSimulate)

	// Maximum-withdrawal solver endpoint
	mux.HandleFunc("/api/max-withdrawal", h.handleMaxWithdrawal)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type simulateResponse struct {
	Plans    []planResult `json:"plans"`
	Warnings []string     `json:"warnings,omitempty"`
	Duration string       `json:"duration"`
}

type planResult struct {
	Name          string                          `json:"name"`
	Cached        bool                            `json:"cached"`
	Results       *simulation.AggregatedResult    `json:"results,omitempty"`
	MaxWithdrawal *simulation.MaxWithdrawalResult `json:"maxWithdrawal,omitempty"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	h.runUpload(w, r, "server.handleSimulate", false)
}

func (h *handler) handleMaxWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.runUpload(w, r, "server.handleMaxWithdrawal", true)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) runUpload(w http.ResponseWriter, r *http.Request, op string, solve bool) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	configBytes, err := h.readConfigUpload(w, r)
	if err != nil {
		// readConfigUpload already responded
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()

	plans := cfg.ActivePlans()
	if len(plans) == 0 {
		h.respondError(w, http.StatusBadRequest, "configuration has no active plans", op)
		return
	}

	results := make([]planResult, 0, len(plans))
	for _, plan := range plans {
		ctx := config.NewPlanningContext(plan)
		if !ctx.IsReady() {
			h.respondError(w, http.StatusBadRequest,
				fmt.Sprintf("plan %q is missing required inputs: %s",
					plan.Name, strings.Join(ctx.MissingInputs(), ", ")), op)
			return
		}

		input, err := ctx.SimulationInput()
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
			return
		}

		var result planResult
		if solve {
			result, err = h.solvePlan(plan.Name, input, cfg.Solver)
		} else {
			result, err = h.simulatePlan(plan.Name, input)
		}
		if err != nil {
			var validationErr *simulation.ValidationError
			if errors.As(err, &validationErr) {
				h.respondError(w, http.StatusBadRequest, err.Error(), op)
			} else {
				h.respondError(w, http.StatusInternalServerError, err.Error(), op)
			}
			return
		}
		results = append(results, result)
	}

	elapsed := time.Since(start)
	h.logger.Info("simulation request complete",
		zap.String("op", op),
		zap.Int("plans", len(results)),
		zap.Bool("solver", solve),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, simulateResponse{
		Plans:    results,
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

// simulatePlan runs one plan through the cache-fronted simulator.
func (h *handler) simulatePlan(name string, input simulation.Input) (planResult, error) {
	if h.cache != nil {
		hash := cache.Fingerprint(input)
		if cached, ok := h.cache.Lookup(hash); ok {
			return planResult{Name: name, Cached: true, Results: cached}, nil
		}

		agg, err := simulation.Run(h.logger, input)
		if err != nil {
			return planResult{}, err
		}
		h.cache.Put(hash, agg)
		return planResult{Name: name, Results: &agg}, nil
	}

	agg, err := simulation.Run(h.logger, input)
	if err != nil {
		return planResult{}, err
	}
	return planResult{Name: name, Results: &agg}, nil
}

// solvePlan runs the maximum-withdrawal search. Solver calls bypass the
// cache by design.
func (h *handler) solvePlan(name string, input simulation.Input, cfg config.SolverConfig) (planResult, error) {
	result, err := simulation.FindMaxWithdrawal(h.logger, input, simulation.SolverConfig{
		TargetSuccessRate: cfg.TargetSuccessRate,
		Precision:         cfg.Precision,
		Trials:            cfg.Trials,
	})
	if err != nil {
		return planResult{}, err
	}
	return planResult{Name: name, MaxWithdrawal: &result}, nil
}

// readConfigUpload accepts either a multipart upload ("file" field) or a
// raw YAML body.
func (h *handler) readConfigUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.respondError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.readConfigUpload")
				return nil, err
			}
			h.respondError(w, http.StatusBadRequest,
				fmt.Sprintf("failed to parse upload: %v", err), "server.readConfigUpload")
			return nil, err
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "missing configuration file", "server.readConfigUpload")
			return nil, err
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				h.logger.Warn("failed to close uploaded file",
					zap.String("op", "server.readConfigUpload"),
					zap.Error(closeErr),
				)
			}
		}()

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			h.respondError(w, http.StatusInternalServerError,
				fmt.Sprintf("failed to read configuration: %v", err), "server.readConfigUpload")
			return nil, err
		}
		return buf.Bytes(), nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("failed to read request body: %v", err), "server.readConfigUpload")
		return nil, err
	}
	return body, nil
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("simulation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
