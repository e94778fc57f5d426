package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"team-match-system/handlers"
	"team-match-system/middleware"
	"team-match-system/models"
	"team-match-system/services"
	"team-match-system/utils"
	"team-match-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB — contest posters, not game builds
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Session-Token, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID, X-Access-Token, X-Refresh-Token",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.FavoriteEntry{},
		&models.DirectoryUser{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// --- Collaborator service endpoints ---
	authServiceURL := mustEnv("AUTH_SERVICE_URL")
	directoryServiceURL := mustEnv("DIRECTORY_SERVICE_URL")
	contestServiceURL := mustEnv("CONTEST_SERVICE_URL")
	teamServiceURL := mustEnv("TEAM_SERVICE_URL")
	engagementServiceURL := mustEnv("ENGAGEMENT_SERVICE_URL")
	placeServiceURL := mustEnv("PLACE_SERVICE_URL")
	kakaoAPIKey := os.Getenv("KAKAO_REST_API_KEY")
	notifyServiceURL := os.Getenv("NOTIFY_SERVICE_URL") // optional; push is best-effort
	serviceToken := mustEnv("MATCH_SERVICE_TOKEN")
	// --- END CONFIG ---

	authClient := services.NewAuthClient(authServiceURL)
	directoryClient := services.NewDirectoryClient(directoryServiceURL)
	contestClient := services.NewContestClient(contestServiceURL)
	teamClient := services.NewTeamClient(teamServiceURL)
	engagementClient := services.NewEngagementClient(engagementServiceURL)
	placeClient := services.NewPlaceClient(placeServiceURL, kakaoAPIKey)
	notifyClient := services.NewNotifyClient(notifyServiceURL, serviceToken)

	sessionService := services.NewSessionService(authClient, directoryClient, services.DefaultSessionTTL, nil)
	favoriteService := services.NewFavoriteService(services.NewGormFavoriteStore(db))
	sessionService.OnLogout(favoriteService.ResetUser)

	invitationService := services.NewInvitationService(teamClient, engagementClient, notifyClient)
	applicationService := services.NewApplicationService(teamClient, engagementClient, notifyClient)

	authService := services.NewAuthService(authClient, directoryClient, sessionService)
	contestService := services.NewContestService(contestClient, favoriteService, sessionService, services.DefaultClosingSoonWindow)
	teamService := services.NewTeamService(teamClient, sessionService)
	engagementService := services.NewEngagementService(invitationService, applicationService, sessionService)
	profileService := services.NewProfileService(db, directoryClient, sessionService)
	searchCoordinator := services.NewSearchCoordinator(placeClient, services.DefaultSearchDebounce)
	placeService := services.NewPlaceService(placeClient, searchCoordinator, sessionService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := workers.NewProfileSyncWorker(db, directoryClient, serviceToken)
	syncWorker.Start(ctx)

	sessionService.StartSweepScheduler()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "active_sessions": sessionService.Active()})
	})

	// ✅ Setup routes — enforced Gateway auth + consistent /s/ prefix
	handlers.SetupAuthRoutes(app, authService, sessionService)
	handlers.SetupContestRoutes(app, contestService, sessionService)
	handlers.SetupTeamRoutes(app, teamService, placeService, sessionService)
	handlers.SetupEngagementRoutes(app, engagementService, sessionService)
	handlers.SetupProfileRoutes(app, profileService, sessionService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Profile Sync Worker running")
	log.Println("✅ Session sweep scheduler running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("%s environment variable not set", key)
	}
	return v
}
