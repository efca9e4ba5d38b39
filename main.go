package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bar-pos/config"
	"github.com/yeremiapane/bar-pos/database"
	"github.com/yeremiapane/bar-pos/display"
	"github.com/yeremiapane/bar-pos/router"
	"github.com/yeremiapane/bar-pos/services"
	"github.com/yeremiapane/bar-pos/utils"
)

func main() {
	issueToken := flag.Uint("issue-token", 0, "print a bearer token for the given employee id and exit")
	role := flag.String("role", "staff", "role embedded in the issued token (staff|manager)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	utils.InitLogger(cfg.App.LogLevel)
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Mode CLI: cetak token untuk terminal kasir lalu keluar
	if *issueToken > 0 {
		token, err := utils.GenerateToken(uint(*issueToken), *role, cfg.JWT.TTL)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	if cfg.App.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	metrics := services.NewMetrics()
	hub := display.NewHub()

	engine := services.NewEngine(db, services.Options{
		LockTimeout:       cfg.Engine.LockTimeout,
		LowStockThreshold: cfg.Engine.LowStockThreshold,
		Metrics:           metrics,
		Notifier:          hub,
	})

	if err := database.Bootstrap(context.Background(), db, engine, cfg.App.SeedFile); err != nil {
		utils.ErrorLogger.Fatalf("Failed to bootstrap database: %v", err)
	}

	// Setup router
	r := router.SetupRouter(router.Options{
		Engine:         engine,
		Hub:            hub,
		Metrics:        metrics,
		AllowOrigin:    cfg.HTTP.AllowOrigin,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
	})

	// Set trusted proxies
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Warnf("Failed to set trusted proxies: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.App.Port)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
