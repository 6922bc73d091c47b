package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/zhaolong57/mood-diary/internal/config"
	"github.com/zhaolong57/mood-diary/internal/handler"
	"github.com/zhaolong57/mood-diary/internal/logger"
	"github.com/zhaolong57/mood-diary/internal/middleware"
	"github.com/zhaolong57/mood-diary/internal/model"
	"github.com/zhaolong57/mood-diary/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	middleware.SetSecret(cfg.Server.JWTSecret)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.User{}, &model.MoodRecord{}); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	authH := handler.NewAuthHandler(service.NewAuthService(db))
	moodH := handler.NewMoodHandler(service.NewMoodService(db))

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-Id"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	api.POST("/register", authH.Register)
	api.POST("/login", authH.Login)

	moods := api.Group("/moods", middleware.JWTAuth())
	moods.GET("", moodH.List)
	moods.POST("", moodH.Upsert)
	moods.DELETE("/:date", moodH.Delete)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
