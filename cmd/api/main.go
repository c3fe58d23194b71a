package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/Ergy12/inspection-du-travail/internal/config"
	"github.com/Ergy12/inspection-du-travail/internal/ctxkeys"
	"github.com/Ergy12/inspection-du-travail/internal/database"
	"github.com/Ergy12/inspection-du-travail/internal/handlers"
	"github.com/Ergy12/inspection-du-travail/internal/middleware"
	"github.com/Ergy12/inspection-du-travail/internal/storage"
)

func main() {
	// 1. Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Connect to PostgreSQL
	db := database.New(&cfg.DB)
	defer db.Close()

	// 3. Initialize file storage — R2 when configured, local disk otherwise
	var fileStore storage.Store
	if cfg.Upload.R2AccountID != "" {
		fileStore, err = storage.NewR2Store(
			cfg.Upload.R2AccountID, cfg.Upload.R2AccessKey, cfg.Upload.R2SecretKey,
			cfg.Upload.R2Bucket, cfg.Upload.R2PublicURL,
		)
	} else {
		fileStore, err = storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
	}
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// 4. Set up router with global middleware
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 5. Initialize handlers with their dependencies
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret)
	complaintHandler := handlers.NewComplaintHandler(db)
	invitationHandler := handlers.NewInvitationHandler(db)
	provinceHandler := handlers.NewProvinceHandler(db)
	directionHandler := handlers.NewDirectionHandler(db)
	branchHandler := handlers.NewBranchHandler(db)
	userHandler := handlers.NewUserManagementHandler(db)
	assignmentHandler := handlers.NewAssignmentHandler(db)
	reportHandler := handlers.NewReportHandler(db)
	historyHandler := handlers.NewHistoryHandler(db)
	documentHandler := handlers.NewDocumentHandler(db, fileStore, cfg.Upload.Dir)

	// 6. Public routes (no authentication required)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Labor Complaint Intake API"))
	})
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(db.Health())
	})

	// Auth routes — login is rate-limited against credential stuffing
	r.Post("/api/auth/register", authHandler.Register)
	r.With(middleware.RateLimit(rate.Every(12*time.Second), 5)).
		Post("/api/auth/login", authHandler.Login)

	// Complaint intake and tracking — the citizen-facing surface.
	// Submission is rate-limited per IP to keep scripted floods out of
	// the intake queue.
	r.With(middleware.RateLimit(rate.Every(time.Minute), 3)).
		Post("/api/complaints", complaintHandler.Submit)
	r.Get("/api/complaints/track/{code}", complaintHandler.TrackByCode)
	r.Get("/api/complaints/track/{code}/invitations", invitationHandler.ListByCode)
	r.Patch("/api/complaints/track/{code}/invitations/{id}/read", invitationHandler.MarkRead)

	// Serve uploaded files (local storage only — R2 redirects to CDN)
	r.Get("/api/files/*", documentHandler.ServeFile)

	// 7. Protected routes (require valid JWT)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		// Current user profile
		r.Get("/api/auth/me", authHandler.GetMe)

		// Reference data — role sets are exact: no role implies another
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(ctxkeys.ProvinceRoles...))
			r.Get("/api/provinces", provinceHandler.List)
			r.Post("/api/provinces", provinceHandler.Create)
			r.Put("/api/provinces/{id}", provinceHandler.Update)
			r.Delete("/api/provinces/{id}", provinceHandler.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(ctxkeys.DirectionRoles...))
			r.Get("/api/directions", directionHandler.List)
			r.Post("/api/directions", directionHandler.Create)
			r.Put("/api/directions/{id}", directionHandler.Update)
			r.Delete("/api/directions/{id}", directionHandler.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(ctxkeys.BranchRoles...))
			r.Get("/api/branches", branchHandler.List)
			r.Post("/api/branches", branchHandler.Create)
			r.Put("/api/branches/{id}", branchHandler.Update)
			r.Delete("/api/branches/{id}", branchHandler.Delete)
		})

		// User management
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(ctxkeys.UserAdminRoles...))
			r.Get("/api/users", userHandler.List)
			r.Patch("/api/users/{id}/role", userHandler.UpdateRole)
			r.Patch("/api/users/{id}/active", userHandler.SetActive)
			r.Patch("/api/users/{id}/scope", userHandler.AssignScope)
			r.Delete("/api/users/{id}", userHandler.Delete)
		})

		// Complaint management
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(ctxkeys.ComplaintStaffRoles...))

			r.Get("/api/complaints", complaintHandler.List)
			r.Route("/api/complaints/{id}", func(r chi.Router) {
				r.Get("/", complaintHandler.GetByID)
				r.Patch("/status", complaintHandler.UpdateStatus)
				r.Get("/history", historyHandler.ListByComplaint)

				r.Get("/assignments", assignmentHandler.ListByComplaint)
				r.Post("/assignments", assignmentHandler.Assign)
				r.Delete("/assignments/{assignmentId}", assignmentHandler.Remove)

				r.Get("/reports", reportHandler.ListByComplaint)
				r.Post("/reports", reportHandler.Create)

				r.Get("/documents", documentHandler.ListByComplaint)
				r.Post("/documents", documentHandler.Upload)

				r.Post("/invitations", invitationHandler.Create)
			})
		})
	})

	// 8. Start server with graceful shutdown
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server started on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-done
	log.Println("Server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
