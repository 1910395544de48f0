package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"retromart/internal/handlers"
	"retromart/internal/kvstore"
	"retromart/internal/middleware"
	"retromart/internal/models"
	"retromart/internal/repositories"
	"retromart/internal/services"
	"retromart/pkg/rabbitmq"
)

// loadConfig sets up Viper to read configuration from environment
// variables, with demo-friendly defaults.
func loadConfig() {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite") // sqlite | postgres | memory
	viper.SetDefault("DATABASE_DSN", "retromart.db")
	viper.SetDefault("JWT_SECRET", "retromart_dev_secret")
	viper.SetDefault("ADMIN_TRN", "352-576-920")
	viper.SetDefault("ADMIN_PASSWORD", "AdminLog1n")
	viper.SetDefault("SESSION_DURATION", 15*time.Minute)
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.AutomaticEnv()
}

// openStore opens the configured key-value store backend.
func openStore() (kvstore.Store, error) {
	driver := viper.GetString("DATABASE_DRIVER")
	dsn := viper.GetString("DATABASE_DSN")

	switch driver {
	case "memory":
		return kvstore.NewMemoryStore(), nil
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store %q: %w", dsn, err)
		}
		return kvstore.NewGormStore(db)
	case "postgres":
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres store: %w", err)
		}
		return kvstore.NewGormStore(db)
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", driver)
	}
}

// NewApp wires repositories, services, and handlers on top of the given
// store and returns the configured Fiber app. events may be nil, in which
// case checkout skips event publication.
func NewApp(store kvstore.Store, events services.InvoiceEventPublisher) (*fiber.App, *services.AuthService, error) {
	// Repositories
	userRepo := repositories.NewKVUserRepository(store)
	productRepo := repositories.NewKVProductRepository(store)
	cartRepo := repositories.NewKVCartRepository(store)
	invoiceRepo := repositories.NewKVInvoiceRepository(store)
	sessionRepo := repositories.NewKVSessionRepository(store)

	// Services
	authService := services.NewAuthService(userRepo, sessionRepo, services.AuthConfig{
		JWTSecret:     viper.GetString("JWT_SECRET"),
		AdminTRN:      viper.GetString("ADMIN_TRN"),
		AdminPassword: viper.GetString("ADMIN_PASSWORD"),
		SessionTTL:    viper.GetDuration("SESSION_DURATION"),
	})
	catalogService := services.NewCatalogService(productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	checkoutService := services.NewCheckoutService(cartRepo, productRepo, invoiceRepo, events)
	reportService := services.NewReportService(userRepo, invoiceRepo)

	// The default catalog is written only when the store is empty, so a
	// restart never resets live stock counts.
	if err := catalogService.SeedDefaults(defaultProducts()); err != nil {
		return nil, nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	reportHandler := handlers.NewReportHandler(reportService)

	app := fiber.New()
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)

	// Session-protected routes
	protected := apiV1.Group("", middleware.SessionRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	productHandler.RegisterRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	checkoutHandler.RegisterRoutes(protected)
	reportHandler.RegisterRoutes(protected)

	// Admin-only catalog editor
	admin := protected.Group("", middleware.AdminRequired())
	productHandler.RegisterAdminRoutes(admin)

	return app, authService, nil
}

func main() {
	loadConfig()

	store, err := openStore()
	if err != nil {
		log.Fatalf("Failed to open key-value store: %v", err)
	}

	// Event publishing is optional: without a broker URL the checkout flow
	// simply skips publication.
	var events services.InvoiceEventPublisher
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, continuing without events: %v", err)
		} else {
			defer mqClient.Close()
			events = mqClient

			go func() {
				log.Println("Starting RabbitMQ consumer for invoice events...")
				consumerErr := mqClient.ConsumeInvoiceEvents(func(msg amqp.Delivery) error {
					log.Printf("Received invoice event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
					return nil
				})
				if consumerErr != nil {
					log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
				}
			}()
		}
	}

	app, _, err := NewApp(store, events)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// defaultProducts is the catalog the store opens with.
func defaultProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Retro Console", Price: 199.99, Description: "Classic gaming console with vintage charm.", Image: "images/console1.png", Stock: 10},
		{ID: 2, Name: "Arcade Machine", Price: 299.99, Description: "Mini arcade machine for nostalgic fun.", Image: "images/arcade.png", Stock: 5},
		{ID: 3, Name: "Pixelated Controller", Price: 49.99, Description: "Stylish controller with pixelated design.", Image: "images/controller.png", Stock: 15},
		{ID: 4, Name: "Retro Game Cartridge", Price: 19.99, Description: "Old school game cartridge for ultimate nostalgia.", Image: "images/cartridge.png", Stock: 20},
		{ID: 5, Name: "Vintage Headset", Price: 39.99, Description: "Experience retro sound with this vintage headset.", Image: "images/headset.png", Stock: 8},
		{ID: 6, Name: "Classic Joystick", Price: 29.99, Description: "Retro joystick that makes gaming fun.", Image: "images/joystick.png", Stock: 12},
		{ID: 7, Name: "Pixel Art Poster", Price: 9.99, Description: "Decorative poster with pixel art style.", Image: "images/poster.png", Stock: 25},
		{ID: 8, Name: "Retro T-shirt", Price: 24.99, Description: "Soft t-shirt featuring retro pixel design.", Image: "images/tshirt.png", Stock: 30},
		{ID: 9, Name: "Vintage Puzzle", Price: 14.99, Description: "A fun, old-school puzzle game.", Image: "images/puzzle.png", Stock: 18},
	}
}
