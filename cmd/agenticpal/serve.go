package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/history"
	"github.com/agenticpal/agenticpal/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger.Init(cfg.Environment)
		return runServer(cmd.Context(), cfg)
	},
}

func runServer(ctx context.Context, cfg appConfig) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	metrics := newMetrics()
	if err := metrics.observe(rt.bus); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(rt, metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func newRouter(rt *runtime, metrics *serverMetrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/messages", handleMessage(rt))
		r.Post("/threads/{threadID}/confirmation", handleConfirmation(rt))
	})
	return r
}

type messageRequest struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

type confirmationRequest struct {
	Reply string `json:"reply"`
}

type turnResponse struct {
	ThreadID             string `json:"thread_id"`
	Response             string `json:"response"`
	AwaitingConfirmation bool   `json:"awaiting_confirmation"`
}

func handleMessage(rt *runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Message == "" {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}

		ctx := r.Context()
		past, err := rt.history.Recent(ctx, req.ThreadID, 0)
		if err != nil {
			logger.Warn().Err(err).Str("thread_id", req.ThreadID).Msg("could not load history")
		}

		result, err := rt.agent.HandleMessage(ctx, req.ThreadID, req.Message, past)
		if err != nil {
			logger.Error().Err(err).Str("thread_id", req.ThreadID).Msg("turn failed")
			writeError(w, http.StatusInternalServerError, "the assistant could not process this message")
			return
		}

		recordTurn(ctx, rt.history, result.ThreadID, req.Message, result.Response)
		writeJSON(w, http.StatusOK, turnResponse{
			ThreadID:             result.ThreadID,
			Response:             result.Response,
			AwaitingConfirmation: result.AwaitingConfirmation,
		})
	}
}

func handleConfirmation(rt *runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threadID := chi.URLParam(r, "threadID")

		var req confirmationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Reply == "" {
			writeError(w, http.StatusBadRequest, "reply is required")
			return
		}

		ctx := r.Context()
		result, err := rt.agent.SubmitConfirmation(ctx, threadID, req.Reply)
		if err != nil {
			if agenticpal.IsNoPendingTurn(err) {
				writeError(w, http.StatusNotFound, "no pending confirmation for this thread")
				return
			}
			logger.Error().Err(err).Str("thread_id", threadID).Msg("confirmation failed")
			writeError(w, http.StatusInternalServerError, "the assistant could not process this confirmation")
			return
		}

		recordTurn(ctx, rt.history, result.ThreadID, req.Reply, result.Response)
		writeJSON(w, http.StatusOK, turnResponse{
			ThreadID:             result.ThreadID,
			Response:             result.Response,
			AwaitingConfirmation: result.AwaitingConfirmation,
		})
	}
}

func recordTurn(ctx context.Context, store history.Store, threadID, userMessage, response string) {
	if err := store.Append(ctx, threadID, agenticpal.HistoryTurn{Role: agenticpal.RoleUser, Content: userMessage}); err != nil {
		logger.Warn().Err(err).Str("thread_id", threadID).Msg("could not record user turn")
		return
	}
	if err := store.Append(ctx, threadID, agenticpal.HistoryTurn{Role: agenticpal.RoleAssistant, Content: response}); err != nil {
		logger.Warn().Err(err).Str("thread_id", threadID).Msg("could not record assistant turn")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
