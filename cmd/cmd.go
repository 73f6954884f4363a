package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study-log-backend/internal/config"
	"study-log-backend/internal/handlers"
	"study-log-backend/internal/middleware"
	"study-log-backend/internal/repository"
	"study-log-backend/internal/repository/sqlite"
	"study-log-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// stores bundles the store implementations for the configured driver
type stores struct {
	users    services.UserStore
	records  services.RecordStore
	comments services.CommentStore
	pinger   handlers.Pinger
	close    func()
}

func Run() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	st, err := openStores(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to open database")
	}
	defer st.close()
	log.Info().Str("driver", cfg.Database.Driver).Msg("Database connection established")

	photoService, err := services.NewPhotoService(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create photo service")
	}

	// Initialize services
	userService := services.NewUserService(st.users)
	rankingService := services.NewRankingService(st.records, st.users)
	hub := services.NewRankingHub(rankingService)
	studyService := services.NewStudyService(st.records, userService, hub)
	commentService := services.NewCommentService(st.comments, userService)

	r := NewRouter(RouterDeps{
		Users:       handlers.NewUserHandler(userService),
		Study:       handlers.NewStudyHandler(studyService),
		Ranking:     handlers.NewRankingHandler(rankingService),
		Comments:    handlers.NewCommentHandler(commentService),
		Photos:      handlers.NewPhotoHandler(photoService),
		WebSocket:   handlers.NewWebSocketHandler(hub, userService),
		Store:       st.pinger,
		CORSOrigins: cfg.CORS.AllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// hijacked WebSocket connections are not closed by Shutdown
	hub.CloseAll()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// RouterDeps holds everything the HTTP router serves
type RouterDeps struct {
	Users       *handlers.UserHandler
	Study       *handlers.StudyHandler
	Ranking     *handlers.RankingHandler
	Comments    *handlers.CommentHandler
	Photos      *handlers.PhotoHandler
	WebSocket   *handlers.WebSocketHandler
	Store       handlers.Pinger
	CORSOrigins []string
}

// NewRouter builds the chi router with middleware and all routes
func NewRouter(d RouterDeps) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handlers.Health(d.Store))

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/users", d.Users.ListUsers)
		r.Post("/users", d.Users.CreateUser)
		r.Get("/users/by-name/{name}", d.Users.GetUserByName)
		r.Get("/users/{user_id}/comments", d.Comments.ListComments)
		r.Post("/users/{user_id}/comments", d.Comments.CreateComment)

		r.Get("/study-records", d.Study.ListRecords)
		r.Post("/study-records", d.Study.Submit)
		r.Get("/study-records/{user_id}", d.Study.UserHistory)

		r.Get("/ranking", d.Ranking.GetRankings)
		r.Get("/ranking/{user_id}", d.Ranking.GetUserRanking)

		if d.Photos != nil {
			r.Post("/photos", d.Photos.UploadPhoto)
			r.Post("/photos/presign", d.Photos.PresignUpload)
		}
	})

	// WebSocket route
	r.Get("/ws", d.WebSocket.HandleWebSocket)

	return r
}

// openStores connects to the configured database and prepares its schema
func openStores(ctx context.Context, cfg config.DatabaseConfig) (*stores, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:    db.Users(),
			records:  db.Records(),
			comments: db.Comments(),
			pinger:   db,
			close:    func() { db.Close() },
		}, nil

	default:
		pool, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &stores{
			users:    repository.NewUserRepository(pool),
			records:  repository.NewStudyRecordRepository(pool),
			comments: repository.NewCommentRepository(pool),
			pinger:   pool,
			close:    pool.Close,
		}, nil
	}
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
