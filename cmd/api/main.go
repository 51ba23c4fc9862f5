package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/harentsoaR/mediqueue-api/internal/config"
	"github.com/harentsoaR/mediqueue-api/internal/handlers"
	"github.com/harentsoaR/mediqueue-api/internal/middleware"
	"github.com/harentsoaR/mediqueue-api/internal/scheduling"
	"github.com/harentsoaR/mediqueue-api/internal/services"
	"github.com/harentsoaR/mediqueue-api/internal/storage"
)

func main() {
	bootLogger := zerolog.New(os.Stdout)
	if err := godotenv.Load(); err != nil {
		// Not fatal: rely on real environment variables.
		bootLogger.Info().Msg("no .env file found, relying on environment variables")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsLocal() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// --- Database connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	db := client.Database(cfg.Mongo.Database)
	logger.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	// --- Repositories ---
	doctorRepo := storage.NewMongoDoctorRepository(db)
	if err := doctorRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}
	appointmentRepo := storage.NewMongoAppointmentRepository(db)

	// --- Services ---
	scheduler := scheduling.NewService(doctorRepo, appointmentRepo, cfg.Booking.SlotCapacity,
		logger.With().Str("component", "scheduler").Logger())
	geocoder, err := services.NewGeocodingService(cfg.Geocoder.BaseURL, cfg.Geocoder.CacheSize,
		logger.With().Str("component", "geocoder").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize geocoder")
	}

	h := handlers.NewHandler(doctorRepo, scheduler, geocoder, logger)

	// --- Gin router ---
	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	r.GET("/health", func(c *gin.Context) {
		pingCtx, pingCancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer pingCancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	doctorRoutes := r.Group("/doctors")
	{
		doctorRoutes.POST("", h.CreateDoctor)
		doctorRoutes.GET("", h.ListDoctors)
		doctorRoutes.GET("/filter", h.FilterDoctors)
		doctorRoutes.GET("/slots", h.GetDoctorSlots)
	}
	r.POST("/appointments", h.CreateAppointment)
	r.GET("/locations", h.SearchLocations)

	logger.Info().Str("port", cfg.App.Port).Msg("starting server")
	if err := r.Run(":" + cfg.App.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
