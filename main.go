// Server entry point: loads configuration, connects the database pool, runs
// migrations, wires the services and handlers together, and serves the HTTP
// API with graceful shutdown.
//
// @title Primer Backend API
// @version 1.0
// @description API REST de clientes y usuarios con autenticación JWT.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Escribe 'Bearer TU_TOKEN_JWT' para autorizar
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/primer-backend-go/auth"
	"github.com/user/primer-backend-go/clientes"
	"github.com/user/primer-backend-go/config"
	"github.com/user/primer-backend-go/db"
	_ "github.com/user/primer-backend-go/docs" // registers the swagger spec
	"github.com/user/primer-backend-go/respond"
	"github.com/user/primer-backend-go/store"
	"github.com/user/primer-backend-go/usuarios"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// An unconfigured token secret is a fatal startup condition, never a
	// runtime error.
	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	sqlStore := store.NewSQLStore(pool)
	authService := auth.NewService(sqlStore, tokens, cfg.Auth.BcryptCost)
	authHandlers := auth.NewHandlers(authService)
	userService := usuarios.NewService(sqlStore, cfg.Auth.BcryptCost)
	userHandlers := usuarios.NewHandlers(userService)
	clientService := clientes.NewService(sqlStore)
	clientHandlers := clientes.NewHandlers(clientService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panics inside handlers become the standard error envelope.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					respond.ErrorMessage(w, http.StatusInternalServerError, "Error interno del servidor")
				}
			}()
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
		r.With(auth.Middleware(tokens)).Get("/me", authHandlers.HandleMe())
	})

	r.Route("/api/usuarios", func(r chi.Router) {
		userHandlers.RegisterRoutes(r)
	})

	r.Route("/api/clientes", func(r chi.Router) {
		clientHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
