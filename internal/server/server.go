// Package server provides the HTTP REST API for the resume studio.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/analysis"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/extraction"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
	"github.com/jonathan/resume-studio/internal/storage"
	"github.com/jonathan/resume-studio/internal/types"
)

// DBClient is the persistence surface the server depends on. *db.DB
// implements it; tests substitute a fake.
type DBClient interface {
	// users
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	// resumes
	CreateResume(ctx context.Context, params db.CreateResumeParams) (uuid.UUID, error)
	GetResume(ctx context.Context, resumeID, userID uuid.UUID) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.ResumeSummary, error)
	UpdateResumeData(ctx context.Context, resumeID, userID uuid.UUID, data *types.StructuredResume, score *types.ScoreObject) error
	UpdateTitle(ctx context.Context, resumeID, userID uuid.UUID, title string) error
	UpdateStatus(ctx context.Context, resumeID uuid.UUID, status string) error
	UpdateOriginalScore(ctx context.Context, resumeID uuid.UUID, score *types.ScoreObject) error
	UpdateExtractionResult(ctx context.Context, resumeID uuid.UUID, resume *types.StructuredResume, score *types.ScoreObject, model, status string) error
	DeleteResume(ctx context.Context, resumeID, userID uuid.UUID) (string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	db           DBClient
	files        storage.ObjectStore
	llmClient    llm.Client
	analysis     *analysis.Service
	orchestrator *pipeline.Orchestrator
	rateLimiter  *ratelimit.Limiter
	jwtService   *JWTService
	userService  *UserService
	authHandler  *AuthHandler
	validator    *validator.Validate
	closeDB      func()
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
}

// New creates a server connected to the real database, object store and
// Gemini client.
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmClient, err := llm.NewClient(context.Background(), llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	storageConfig, err := config.NewStorageConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create storage config: %w", err)
	}
	files, err := storage.NewS3Store(context.Background(), storageConfig)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create object store: %w", err)
	}

	s, err := NewWithClients(cfg, database, files, llmClient)
	if err != nil {
		database.Close()
		return nil, err
	}
	s.closeDB = database.Close
	return s, nil
}

// NewWithClients creates a server over already-constructed dependencies.
func NewWithClients(cfg Config, database DBClient, files storage.ObjectStore, llmClient llm.Client) (*Server, error) {
	s := &Server{
		db:        database,
		files:     files,
		llmClient: llmClient,
		validator: validator.New(),
	}

	s.analysis = analysis.NewService(llmClient)
	s.orchestrator = pipeline.New(database, s.analysis, extraction.NewService(llmClient), pipeline.Options{})

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	// Setup router
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("PUT /auth/password", auth(http.HandlerFunc(s.handleUpdatePassword)))

	// Resume endpoints (all owner-scoped via JWT)
	mux.Handle("POST /resumes/upload", auth(http.HandlerFunc(s.handleUploadResume)))
	mux.Handle("POST /resumes/create", auth(http.HandlerFunc(s.handleCreateResume)))
	mux.Handle("POST /resumes/analyze-file", auth(http.HandlerFunc(s.handleAnalyzeFile)))
	mux.Handle("GET /resumes", auth(http.HandlerFunc(s.handleListResumes)))
	mux.Handle("GET /resumes/{id}", auth(http.HandlerFunc(s.handleGetResume)))
	mux.Handle("PUT /resumes/{id}", auth(http.HandlerFunc(s.handleUpdateResume)))
	mux.Handle("PATCH /resumes/{id}/title", auth(http.HandlerFunc(s.handleRenameResume)))
	mux.Handle("DELETE /resumes/{id}", auth(http.HandlerFunc(s.handleDeleteResume)))
	mux.Handle("POST /resumes/{id}/generate", auth(http.HandlerFunc(s.handleGenerateResume)))
	mux.Handle("POST /resumes/{id}/regenerate", auth(http.HandlerFunc(s.handleGenerateResume)))
	mux.Handle("POST /resumes/{id}/analyze", auth(http.HandlerFunc(s.handleAnalyzeResume)))
	mux.Handle("POST /resumes/{id}/generate-summary", auth(http.HandlerFunc(s.handleGenerateSummary)))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // synchronous analyze calls the model
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the full middleware-wrapped handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Let in-flight background tasks finish their writes
	s.orchestrator.Wait()

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	if s.closeDB != nil {
		s.closeDB()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleRegister handles user registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Register(w, r)
}

// handleLogin handles user login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}

// handleUpdatePassword handles password update requests.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
