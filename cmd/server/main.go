package main

import (
	"database/sql"
	"log"
	"time"

	"eduhub/pkg/cache"
	"eduhub/pkg/config"
	"eduhub/pkg/database"
	"eduhub/pkg/gemini"
	"eduhub/pkg/handlers"
	"eduhub/pkg/middleware"
	"eduhub/pkg/models"
	"eduhub/pkg/repository"
	"eduhub/pkg/server"
	"eduhub/pkg/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func main() {
	cfg := config.Load()

	if cfg.GeminiAPIKey == "" {
		log.Fatal("[SERVER] GEMINI_API_KEY not set")
	}

	db := database.Connect(cfg.DatabaseURL)
	defer db.Close()

	setupDatabase(db)

	log.Println("[SERVER] connecting to Redis...")
	redis := cache.New(cfg.RedisURL)
	defer redis.Close()
	log.Println("[SERVER] Redis connected")

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	contentRepo := repository.NewContentRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	generator := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	authService := services.NewAuthService(userRepo, sessionRepo, activityRepo, cfg.SessionTTL)
	eduService := services.NewEducationService(contentRepo, activityRepo, generator, redis)

	go sweepExpiredSessions(authService)

	authMW := middleware.NewAuth(authService)
	auth := handlers.NewAuth(authService, cfg.Production)
	education := handlers.NewEducation(eduService)
	admin := handlers.NewAdmin(userRepo, authService)

	app := server.NewApp("eduhub")

	authGroup := app.Group("/auth")
	authGroup.Post("/register", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.Register)

	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.Login)

	authGroup.Post("/logout", auth.Logout)
	authGroup.Get("/check-session", auth.CheckSession)

	protected := authGroup.Group("", authMW.LoginRequired)
	protected.Get("/me", auth.Me)
	protected.Get("/sessions", auth.Sessions)
	protected.Post("/logout-all", auth.LogoutAll)
	protected.Post("/change-password", auth.ChangePassword)

	api := app.Group("/api", authMW.LoginRequired)
	api.Post("/education", education.GenerateEducation)
	api.Post("/curriculum", education.GenerateCurriculum)
	api.Post("/assignment-evaluate", education.EvaluateAssignment)
	api.Get("/education", education.ListContents)
	api.Get("/evaluations", education.ListEvaluations)
	api.Post("/education/:id/favorite", education.ToggleFavorite)

	adminGroup := app.Group("/admin", authMW.LoginRequired, authMW.RoleRequired(models.RoleAdmin))
	adminGroup.Get("/users", admin.ListUsers)
	adminGroup.Put("/users/:id/active", admin.SetUserActive)
	adminGroup.Post("/sessions/cleanup", admin.CleanupSessions)

	addr := "0.0.0.0:" + cfg.Port
	log.Printf("[SERVER] starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("[SERVER] failed to start: %v", err)
	}
}

func setupDatabase(db *sql.DB) {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'standard',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			session_token TEXT UNIQUE NOT NULL,
			user_agent TEXT NOT NULL DEFAULT '',
			ip TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS education_contents (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			kind TEXT NOT NULL DEFAULT 'education',
			subject TEXT NOT NULL,
			content TEXT NOT NULL,
			is_favorite BOOLEAN NOT NULL DEFAULT false,
			generated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS assignment_evaluations (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			assignment_text TEXT NOT NULL,
			criteria TEXT NOT NULL,
			evaluation_result TEXT NOT NULL,
			evaluated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS activity_logs (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			action TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			ip TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, s := range schemas {
		db.Exec(s)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(session_token)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_contents_user ON education_contents(user_id, generated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_contents_favorite ON education_contents(user_id) WHERE is_favorite = true`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_user ON assignment_evaluations(user_id, evaluated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_user ON activity_logs(user_id, created_at DESC)`,
	}

	for _, idx := range indexes {
		db.Exec(idx)
	}

	log.Println("[DB] schema initialized")
}

// sweepExpiredSessions reclaims expired rows. Validation already checks
// expiry at read time, so the schedule only affects table size.
func sweepExpiredSessions(auth services.AuthService) {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		auth.CleanupExpired()
	}
}
