package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/config"
	"github.com/benmouhabdel/heec-manager/internal/database"
	"github.com/benmouhabdel/heec-manager/internal/handler"
	"github.com/benmouhabdel/heec-manager/internal/middleware"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
	"github.com/benmouhabdel/heec-manager/internal/router"
	"github.com/benmouhabdel/heec-manager/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Departement{},
		&models.Filiere{},
		&models.Module{},
		&models.Role{},
		&models.User{},
		&models.Seance{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	departementRepo := repository.NewDepartementRepository(db)
	filiereRepo := repository.NewFiliereRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	seanceRepo := repository.NewSeanceRepository(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	authorizer := service.NewAuthorizer(userRepo, cfg.BootstrapAdminEmail, logger)
	authService := service.NewAuthService(userRepo, activityService, cfg.JWTSecret, cfg.TokenTTL, logger)
	departementService := service.NewDepartementService(departementRepo, filiereRepo, validate, activityService, logger)
	filiereService := service.NewFiliereService(filiereRepo, departementRepo, validate, activityService, logger)
	moduleService := service.NewModuleService(moduleRepo, filiereRepo, validate, activityService, logger)
	seanceService := service.NewSeanceService(seanceRepo, moduleRepo, userRepo, validate, activityService, logger)
	userService := service.NewUserService(userRepo, roleRepo, validate, activityService, cfg.BcryptCost, logger)
	roleService := service.NewRoleService(roleRepo, validate, activityService, logger)
	assignmentService := service.NewAssignmentService(moduleRepo, userRepo, filiereRepo, seanceRepo, activityService, logger)
	dashboardService := service.NewDashboardService(statsRepo, activityRepo, redisClient, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		HealthHandler:      handler.NewHealthHandler(cfg.AppName, cfg.AppEnv),
		AuthHandler:        handler.NewAuthHandler(authService, logger),
		DepartementHandler: handler.NewDepartementHandler(departementService, logger),
		FiliereHandler:     handler.NewFiliereHandler(filiereService, logger),
		ModuleHandler:      handler.NewModuleHandler(moduleService, seanceService, assignmentService, logger),
		SeanceHandler:      handler.NewSeanceHandler(seanceService, logger),
		UserHandler:        handler.NewUserHandler(userService, assignmentService, seanceService, logger),
		RoleHandler:        handler.NewRoleHandler(roleService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, logger),
		DashboardHandler:   handler.NewDashboardHandler(dashboardService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
		AdminMiddleware:    middleware.AdminOnly(authorizer, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
