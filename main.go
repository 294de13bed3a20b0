package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/MesaLista/mesabot-backend/database"
	"github.com/MesaLista/mesabot-backend/internal/handlers"
	"github.com/MesaLista/mesabot-backend/internal/jobs"
	"github.com/MesaLista/mesabot-backend/internal/models"
	"github.com/MesaLista/mesabot-backend/internal/routes"
	"github.com/MesaLista/mesabot-backend/internal/services"
	"github.com/MesaLista/mesabot-backend/internal/storage"
)

const sessionCleanupInterval = 10 * time.Minute

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	restaurantID := os.Getenv("RESTAURANT_ID")
	if restaurantID == "" {
		restaurantID = storage.DefaultRestaurantID
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Reservation{},
			&models.PromptFragment{},
			&models.RiceDish{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		dbStore := storage.NewDatabaseStore(database.DB)
		if err := dbStore.SeedDefaultContent(); err != nil {
			log.Fatal("Failed to seed default content:", err)
		}
		store = dbStore
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Twilio is optional: without it replies are logged, not delivered.
	var sender services.MessageSender
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("⚠️  Twilio service not initialized: %v", err)
	} else {
		sender = twilioService
		log.Println("✅ Twilio service initialized")
	}

	// Gemini is required: the bot cannot converse without it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	geminiService, err := services.NewGeminiService(ctx, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatal("Failed to initialize Gemini service:", err)
	}
	log.Println("✅ Gemini service initialized")

	// Redis mirror is optional.
	var redisClient *redis.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Printf("⚠️  Invalid REDIS_URL, session mirroring disabled: %v", err)
		} else {
			client := redis.NewClient(opts)
			if err := client.Ping(ctx).Err(); err != nil {
				log.Printf("⚠️  Redis unreachable, session mirroring disabled: %v", err)
			} else {
				redisClient = client
				log.Println("✅ Redis session mirror connected")
			}
		}
	}

	// Conversation pipeline
	sessionManager := services.NewSessionManager(sessionConfigFromEnv(), redisClient)
	sessionManager.StartCleanup(ctx, sessionCleanupInterval)

	calendar := services.NewCalendarService()
	riceDishes := loadRiceDishNames(store, restaurantID)

	assistant := services.NewAssistantService(
		store,
		sessionManager,
		services.NewExtractorService(calendar, riceDishes),
		services.NewContextService(calendar),
		services.NewTemplateService(store),
		services.NewParserService(riceDishes),
		geminiService,
		sender,
		services.AssistantConfig{
			RestaurantID: restaurantID,
			AdminPhone:   os.Getenv("ADMIN_PHONE"),
		},
	)

	// Day-before reservation reminders
	reminderJob := jobs.NewReminderJob(store, sender, restaurantID)
	reminderJob.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "MesaBot Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	webhookHandler := handlers.NewWebhookHandler(assistant, sender, sessionManager)
	routes.SetupRoutes(app, webhookHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		reminderJob.Stop()
		cancel()
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 MesaBot Backend starting on port %s", port)
	log.Printf("🍽️  Restaurant: %s", restaurantID)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("📱 WhatsApp delivery: %s", getWhatsAppStatus(sender))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

// sessionConfigFromEnv reads the session bounds, falling back to the
// defaults when unset or malformed.
func sessionConfigFromEnv() services.SessionConfig {
	config := services.SessionConfig{}
	if v := os.Getenv("MAX_SESSION_MESSAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.MaxMessages = n
		}
	}
	if v := os.Getenv("SESSION_TIMEOUT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Timeout = time.Duration(n) * time.Minute
		}
	}
	return config
}

// loadRiceDishNames fetches the restaurant's rice menu for the slot
// extractor and the parser.
func loadRiceDishNames(store storage.Store, restaurantID string) []string {
	dishes, err := store.GetRiceDishes(restaurantID)
	if err != nil {
		log.Printf("⚠️  Failed to load rice menu for %s: %v", restaurantID, err)
		return nil
	}

	names := make([]string, 0, len(dishes))
	for _, d := range dishes {
		names = append(names, d.Name)
	}
	return names
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getWhatsAppStatus(sender services.MessageSender) string {
	if sender == nil {
		return "Not configured (replies logged only)"
	}
	return "Configured"
}
