package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/myflix/apiserver/config"
	"github.com/myflix/apiserver/internal/db"
	"github.com/myflix/apiserver/internal/events"
	"github.com/myflix/apiserver/internal/handlers"
	"github.com/myflix/apiserver/internal/services"
	"github.com/myflix/apiserver/internal/storage"
	"github.com/myflix/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *events.Publisher
}

// New constructs a Server with its full dependency graph: database,
// repositories, services, optional poster storage, optional event
// broker, and the router.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	posterStorage, err := newPosterStorage(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	publisher, err := newEventPublisher(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userService := services.NewUserService(store.NewUserRepository(dbConn))
	catalogService := services.NewCatalogService(
		store.NewMovieRepository(dbConn),
		store.NewGenreRepository(dbConn),
		store.NewDirectorRepository(dbConn),
		posterStorage,
	)

	authHandler := handlers.NewAuthHandler(userService, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userHandler := handlers.NewUserHandler(userService, publisher)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		}),
	)

	router.Get("/", handlers.Home)
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, authHandler)
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userHandler, authHandler.RequireAuth)
	})
	handlers.CatalogRouter(router, catalogHandler, authHandler.RequireAuth)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     publisher,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	_ = s.events.Close()
	return s.httpServer.Close()
}

func newPosterStorage(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStorage, error) {
	var backend storage.ObjectStorage
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		backend = client
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if err := backend.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return backend, nil
}

func newEventPublisher(ctx context.Context, cfg config.EventsConfig) (*events.Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case "rabbitmq":
		broker, err := events.NewRabbitMQBroker(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(broker), nil
	case "pubsub":
		broker, err := events.NewPubSubBroker(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(broker), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
