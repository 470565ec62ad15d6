package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/creatorstack/dealflow-cli/internal/model"
	"github.com/creatorstack/dealflow-cli/internal/push"
	"github.com/creatorstack/dealflow-cli/pkg/notion"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mailbox notification server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		sink := &dealSink{env: env}
		if cfg.Notion.Token != "" && cfg.Notion.DealDB != "" {
			sink.notion = notion.NewClient(cfg.Notion.Token)
			sink.notionDB = cfg.Notion.DealDB
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		// Direct ingestion: the request body is one message, processed
		// synchronously so callers see routing and extraction errors.
		r.Post("/messages", func(w http.ResponseWriter, req *http.Request) {
			var msg model.Message
			if err := json.NewDecoder(req.Body).Decode(&msg); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			if msg.From == "" && msg.Subject == "" && msg.Body == "" {
				http.Error(w, `{"error":"empty message"}`, http.StatusBadRequest)
				return
			}

			if err := sink.Handle(req.Context(), msg); err != nil {
				zap.L().Error("direct ingestion failed",
					zap.String("subject", msg.Subject),
					zap.Error(err),
				)
				http.Error(w, `{"error":"processing failed"}`, http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
		})

		if cfg.Server.SourceURL != "" {
			handler := &push.Handler{
				Source: newBridgeSource(cfg.Server.SourceURL),
				Sink:   sink,
			}
			r.Method(http.MethodPost, "/notifications/push", handler)
		} else {
			zap.L().Warn("server.source_url not set, push endpoint disabled")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
