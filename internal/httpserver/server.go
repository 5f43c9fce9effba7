package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ycfeng/slimhub/internal/ai"
	"github.com/ycfeng/slimhub/internal/auth"
	"github.com/ycfeng/slimhub/internal/blob"
	"github.com/ycfeng/slimhub/internal/config"
	"github.com/ycfeng/slimhub/internal/exercises"
	"github.com/ycfeng/slimhub/internal/foodlog"
	"github.com/ycfeng/slimhub/internal/foodscan"
	"github.com/ycfeng/slimhub/internal/imagegen"
	"github.com/ycfeng/slimhub/internal/planner"
	"github.com/ycfeng/slimhub/internal/reports"
	"github.com/ycfeng/slimhub/internal/storage"
	"github.com/ycfeng/slimhub/internal/storage/memory"
	"github.com/ycfeng/slimhub/internal/storage/postgres"
	"github.com/ycfeng/slimhub/internal/workouts"
)

// appStorage объединяет все интерфейсы хранилища приложения
type appStorage interface {
	storage.Storage
	Plans() storage.PlansStorage
	FoodLogs() storage.FoodLogStorage
	Completions() storage.CompletionsStorage
}

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        appStorage
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("INFO storage: using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: connecting to PostgreSQL...")
	ctx := context.Background()
	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.Printf("WARN storage: PostgreSQL connection failed: %v", err)
		log.Println("WARN storage: falling back to in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: PostgreSQL connected")
	s.storage = pgStorage
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Auth API
	authService := auth.NewService(s.config, s.storage)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	s.mux.HandleFunc("POST /v1/auth/login", authHandler.HandleLogin)
	s.mux.HandleFunc("GET /v1/auth/me", authHandler.HandleMe)

	// AI provider and external clients
	provider := ai.NewProvider(s.config)
	imageClient := imagegen.NewClient(s.config)
	visionClient := foodscan.NewVisionClient(s.config)

	blobStore, blobMode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("blob store initialization failed: %v", err)
	}
	log.Printf("INFO blob: store ready mode=%s", blobMode)

	// Plans API
	plannerService := planner.NewService(s.config, s.storage, s.storage.Plans(), s.storage.Completions(), provider)
	plannerHandler := planner.NewHandlers(plannerService)

	s.mux.HandleFunc("GET /v1/plans/diet", plannerHandler.HandleGetDietPlan)
	s.mux.HandleFunc("GET /v1/plans/sport", plannerHandler.HandleGetSportPlan)

	// Food log API
	scanService := foodscan.NewService(s.config, provider, visionClient, imageClient, blobStore)
	foodLogService := foodlog.NewService(s.storage.FoodLogs())
	foodLogHandler := foodlog.NewHandlers(foodLogService, scanService)

	s.mux.HandleFunc("POST /v1/food/log/text", foodLogHandler.HandleLogText)
	s.mux.HandleFunc("POST /v1/food/log/photo", foodLogHandler.HandleLogPhoto)
	s.mux.HandleFunc("GET /v1/food/log/day", foodLogHandler.HandleGetDay)

	// Workouts API
	workoutService := workouts.NewService(s.storage.Plans(), s.storage.Completions())
	workoutHandler := workouts.NewHandlers(workoutService)

	s.mux.HandleFunc("POST /v1/workouts/toggle", workoutHandler.HandleToggle)
	s.mux.HandleFunc("GET /v1/workouts/day", workoutHandler.HandleGetDay)
	s.mux.HandleFunc("GET /v1/workouts/summary", workoutHandler.HandleSummary)

	// Exercises API
	exercisesService := exercises.NewService(provider)
	exercisesHandler := exercises.NewHandlers(exercisesService)

	s.mux.HandleFunc("GET /v1/exercises/detail", exercisesHandler.HandleDetail)

	// Reports API
	reportGenerator := reports.NewGenerator(foodLogService, workoutService)
	reportHandler := reports.NewHandlers(reportGenerator)

	s.mux.HandleFunc("GET /v1/reports/weekly", reportHandler.HandleWeeklyReport)
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler builds the middleware chain (outermost first):
// CORS → Rate Limit → Auth → Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil {
		handler = s.authMiddleware.RequireAuth(handler)
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("INFO server: listening on http://localhost%s", addr)
	log.Printf("INFO server: health check http://localhost%s/healthz", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
