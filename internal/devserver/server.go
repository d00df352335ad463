// Package devserver is a local stand-in for the remote assessment service.
// It speaks the same JSON contract so the client can be developed and
// tested end to end without the hosted backend.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/samber/lo"

	"github.com/abhisek/learnai/internal/assessment"
)

// Options configures a Server.
type Options struct {
	// Bank is the diagnostic question bank. Nil loads the built-in bank.
	Bank []BankQuestion
	// Writer, when set, rewrites bank questions with an LLM.
	Writer *Writer
	// AllowedOrigins is passed to the CORS middleware.
	AllowedOrigins []string
	// Logger defaults to the standard logger.
	Logger *log.Logger
}

// Server serves the assessment API.
type Server struct {
	bank     []BankQuestion
	writer   *Writer
	lessons  *catalogue
	learners *learners
	origins  []string
	log      *log.Logger
	shuffle  func([]int) []int
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	bank := opts.Bank
	if bank == nil {
		var err error
		if bank, err = LoadBank(""); err != nil {
			return nil, err
		}
	}
	lessons, err := loadCatalogue(defaultLessons)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Server{
		bank:     bank,
		writer:   opts.Writer,
		lessons:  lessons,
		learners: newLearners(),
		origins:  origins,
		log:      logger,
		shuffle:  func(s []int) []int { return lo.Shuffle(s) },
	}, nil
}

// Handler returns the routed API with CORS applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/diagnostic", s.handleDiagnostic).Methods(http.MethodPost)
	api.HandleFunc("/lesson", s.handleLesson).Methods(http.MethodGet)
	api.HandleFunc("/lesson/next-page", s.handleNextPage).Methods(http.MethodPost)
	api.HandleFunc("/progress", s.handleProgress).Methods(http.MethodGet)
	api.HandleFunc("/advance", s.handleAdvance).Methods(http.MethodPost)
	api.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/quiz", s.handleUnavailable).Methods(http.MethodPost)
	api.HandleFunc("/capstone", s.handleUnavailable).Methods(http.MethodPost)
	api.HandleFunc("/freepik-image", s.handleUnavailable).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", assessment.UserHeader},
	})
	return c.Handler(r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Printf("assessment server listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Printf("assessment server stopped")
	return nil
}
