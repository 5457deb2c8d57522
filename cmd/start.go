package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"card-mirror/core/database"
	"card-mirror/core/loader"
	"card-mirror/core/logger"
	"card-mirror/core/middleware/auth"
	"card-mirror/core/middleware/rayid"
	"card-mirror/core/storage"
	"card-mirror/feature/catalog"
	mirrorFeature "card-mirror/feature/mirror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "card-mirror/docs/swagger"
)

// @title Card Mirror API
// @version 1.0
// @description Lookup API over the local card catalog mirror.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the lookup server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer m.Close()
		cfg, logg := m.cfg, m.logger
		zap.ReplaceGlobals(logg)

		if !cfg.Server.IsValidLanguage() {
			logg.Fatal("Unsupported server language", zap.String("language", cfg.Server.Language))
		}

		// Export database (optional)
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to export database", zap.String("driver", cfg.Database.Driver))
		}

		// Publication bucket (optional)
		var client storage.Client
		if c, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Storage client unavailable", zap.Error(err))
		} else {
			client = c
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(catalog.NewFeature(catalog.NewService(m.repo, logg, db), cfg.Server.Language))
		mgr.Register(mirrorFeature.NewFeature(mirrorFeature.NewService(
			m.store, m.tracker, m.repo, client, cfg.Storage, cfg.Mirror, logg)))

		// RayID first so every log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		// Every route but the status check needs the API key
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Public: []string{"/mirror/status"}}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
