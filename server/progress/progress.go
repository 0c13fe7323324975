//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package progress exposes a worker's evaluation progress over HTTP, so a
// long multi-hour run can be watched without scraping logs.
package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/videoqa-eval/log"
)

// Snapshot is the progress state returned by the status endpoint.
type Snapshot struct {
	// RunID identifies the evaluation run.
	RunID string `json:"run_id"`
	// Model is the evaluated model name.
	Model string `json:"model"`
	// Rank is this worker's rank.
	Rank int `json:"rank"`
	// WorldSize is the total worker count.
	WorldSize int `json:"world_size"`
	// Done is the number of completed items on this rank.
	Done int `json:"done"`
	// Total is the number of items in this rank's shard.
	Total int `json:"total"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
}

// Server serves the progress endpoint of one worker.
type Server struct {
	addr   string
	router *mux.Router
	http   *http.Server

	mu   sync.RWMutex
	snap Snapshot
}

// New creates a progress server bound to addr.
func New(addr string, snap Snapshot) *Server {
	snap.StartedAt = time.Now()
	s := &Server{
		addr:   addr,
		router: mux.NewRouter(),
		snap:   snap,
	}
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	s.router.Use(c.Handler)
	s.router.HandleFunc("/v1/progress", s.handleProgress).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return s
}

// Update records progress.
func (s *Server) Update(done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Done = done
	s.snap.Total = total
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving in the background.
func (s *Server) Start() {
	s.http = &http.Server{Addr: s.addr, Handler: s.router}
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("progress server: %v", err)
		}
	}()
	log.Infof("progress server listening on %s", s.addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleProgress(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		log.Errorf("encode progress snapshot: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
