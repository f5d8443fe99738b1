package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/batch"
	"github.com/sells-group/leadscout/internal/jobs"
	"github.com/sells-group/leadscout/internal/model"
)

const maxInvalidURLsReported = 3

var servePort int

// jobSubmitter starts batch jobs in the background.
type jobSubmitter interface {
	Submit(ctx context.Context, src batch.Source, criteria *model.EvaluationCriteria) (model.Job, error)
}

// jobReader returns job snapshots by id.
type jobReader interface {
	Get(ctx context.Context, id string) (model.Job, error)
}

// apiDeps are the collaborators behind the HTTP API.
type apiDeps struct {
	Submitter   jobSubmitter
	Jobs        jobReader
	Reactions   batch.ReactionFetcher
	Breakers    func() map[string]string
	APIKey      string
	CORSOrigins []string
}

type processPostRequest struct {
	PostURL  string                    `json:"post_url"`
	Criteria *model.EvaluationCriteria `json:"criteria,omitempty"`
}

type processProfilesRequest struct {
	ProfileURLs []string                  `json:"profile_urls"`
	Criteria    *model.EvaluationCriteria `json:"criteria,omitempty"`
}

type startedResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for batch submissions and job polling",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initApp(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		router := buildRouter(apiDeps{
			Submitter:   env.Orchestrator,
			Jobs:        env.Registry,
			Reactions:   env.Enricher,
			Breakers:    env.Breakers.States,
			APIKey:      cfg.Server.APIKey,
			CORSOrigins: cfg.Server.CORSOrigins,
		})

		return startServer(ctx, router, resolvePort(servePort, cfg.Server.Port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// resolvePort prefers the flag value over the configured port.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// startServer serves h until ctx is cancelled, then shuts down gracefully.
func startServer(ctx context.Context, h http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

// buildRouter mounts the public probes and the authenticated /api routes.
func buildRouter(deps apiDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "LeadScout API is running"})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		body := map[string]any{"status": "ok"}
		if deps.Breakers != nil {
			body["breakers"] = deps.Breakers()
		}
		writeJSON(w, http.StatusOK, body)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(requireAPIKey(deps.APIKey))
		r.Post("/process-post", handleProcessPost(deps))
		r.Post("/process-manual-profiles", handleProcessProfiles(deps))
		r.Get("/job-status/{jobID}", handleJobStatus(deps))
	})

	return r
}

// requireAPIKey checks a bearer token when key is non-empty.
func requireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleProcessPost(deps apiDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.PostURL) == "" {
			writeError(w, http.StatusBadRequest, "post_url is required")
			return
		}
		if msg, ok := checkCriteria(req.Criteria); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		src := batch.NewPostSource(req.PostURL, deps.Reactions)
		job, err := deps.Submitter.Submit(r.Context(), src, req.Criteria)
		if err != nil {
			zap.L().Error("api: submit post job failed", zap.String("post_id", src.PostID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to start job")
			return
		}

		writeJSON(w, http.StatusOK, startedResponse{
			JobID:   job.ID,
			Status:  "started",
			Message: fmt.Sprintf("Processing started for post %s", src.PostID),
		})
	}
}

func handleProcessProfiles(deps apiDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processProfilesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		src := batch.NewURLSource(req.ProfileURLs)
		if len(src.URLs) == 0 {
			writeError(w, http.StatusBadRequest, "No valid profile URLs provided")
			return
		}
		if bad := batch.InvalidURLs(src.URLs, maxInvalidURLsReported); len(bad) > 0 {
			writeError(w, http.StatusBadRequest, "Invalid LinkedIn profile URLs: "+strings.Join(bad, ", "))
			return
		}
		if msg, ok := checkCriteria(req.Criteria); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		job, err := deps.Submitter.Submit(r.Context(), src, req.Criteria)
		if err != nil {
			zap.L().Error("api: submit profile job failed", zap.Int("profiles", len(src.URLs)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to start job")
			return
		}

		writeJSON(w, http.StatusOK, startedResponse{
			JobID:   job.ID,
			Status:  "started",
			Message: fmt.Sprintf("Processing started for %d profiles", len(src.URLs)),
		})
	}
}

func handleJobStatus(deps apiDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := deps.Jobs.Get(r.Context(), chi.URLParam(r, "jobID"))
		if errors.Is(err, jobs.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load job")
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

// checkCriteria normalizes optional custom criteria in place.
func checkCriteria(c *model.EvaluationCriteria) (string, bool) {
	if c == nil {
		return "", true
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return err.Error(), false
	}
	return "", true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
