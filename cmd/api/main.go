package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bess-dispatch/internal/api/handlers"
	"bess-dispatch/internal/api/middleware"
	"bess-dispatch/internal/config"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	var cfg *config.Config
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load config")
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		log.Info().Msg("no CONFIG_PATH set, using default config")
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log.Logger))
	router.Use(middleware.ErrorHandler())

	optimizeHandler := handlers.NewOptimizeHandler(cfg, log.Logger)
	rankHandler := handlers.NewRankHandler(cfg, log.Logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/optimize", optimizeHandler.Optimize)
		api.GET("/rank", rankHandler.Rank)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
