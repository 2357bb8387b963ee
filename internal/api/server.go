package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/store"
)

type Server struct {
	store *store.Store
	port  string
	loc   *time.Location
}

func NewServer(st *store.Store, port string, loc *time.Location) *Server {
	return &Server{
		store: st,
		port:  port,
		loc:   loc,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/spots", s.handleSpots)
	mux.HandleFunc("GET /api/scores", s.handleScores)
	mux.HandleFunc("GET /api/spots/{id}/score", s.handleSpotScore)
	mux.HandleFunc("GET /api/spots/{id}/window", s.handleSpotWindow)
	mux.HandleFunc("GET /api/spots/{id}/week", s.handleSpotWeek)
	mux.HandleFunc("GET /api/spots/{id}/dawn-patrol", s.handleDawnPatrol)
	mux.HandleFunc("GET /api/spots/{id}/tide", s.handleSpotTide)
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}
