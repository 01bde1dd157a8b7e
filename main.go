package main

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"cardczar/game"
	"cardczar/logger"
	"cardczar/migrations"
	"cardczar/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func run(cfg *Config) error {
	logger.Setup(cfg.debug)

	if err := migrations.Migrate(cfg.postgresURL); err != nil {
		return err
	}

	store, err := storage.NewPostgresStore(context.Background(), cfg.postgresURL)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := game.NewRegistry()
	service := game.NewService(store, registry, game.NewCodeGen(), game.NewScheduler(), game.Config{
		MinPlayers:   cfg.minPlayers,
		AdvanceDelay: cfg.advanceDelay,
	})
	gameHandler := game.NewGameHandler(service, registry, cfg.joinBaseURL)

	r := CreateServer(cfg.allowedOrigins)
	r.GET("/ws", gameHandler.ConnectHandler)
	r.GET("/qr/:code", gameHandler.JoinQRHandler)

	addr := fmt.Sprintf("%s:%d", cfg.bind, cfg.port)
	log.Info().Str("addr", addr).Msg("listening")
	return r.Run(addr)
}

func main() {
	// Environment first, matching how deployments provide the postgres
	// url and origins.
	_ = godotenv.Load()

	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}
