package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	handlers "citysafe/internal/handler"
	"citysafe/internal/models"
	"citysafe/pkg/cache"
	"citysafe/pkg/config"
	"citysafe/pkg/logger"
	"citysafe/pkg/scheduler"
	"citysafe/pkg/stores"
	"citysafe/pkg/util"
)

// citysafe-stub serves the backend contract the mobile client expects. It is
// a development and test target, not the production CitySafe backend.
func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GlobalConfig
	logger.Init(cfg.Log)
	defer logger.Sync()

	db, err := util.InitDatabase(cfg.DBDriver, cfg.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&models.UserAccount{}, &models.ReportRecord{}); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	c, err := cache.NewCache(cache.Config{
		Type:  cfg.CacheType,
		Redis: cache.RedisConfig{Addr: cfg.RedisAddr},
		Local: cache.DefaultLocalConfig(),
	})
	if err != nil {
		log.Fatalf("init cache: %v", err)
	}
	defer c.Close()

	media := stores.New(cfg.MediaStore, cfg.MediaPath)

	// Keepalive ping so pooled connections to mysql/pg do not go stale.
	sched := scheduler.New()
	defer sched.Stop()
	sched.Every(5*time.Minute, scheduler.FuncJob(func(context.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			logger.Warn("database ping failed", zap.Error(err))
		}
	}))

	h := handlers.NewHandlers(db, media, c, cfg.JWTSecret)
	engine := handlers.NewEngine(h, cfg.Mode)

	logger.Info("citysafe stub listening on " + cfg.Addr)
	if err := engine.Run(cfg.Addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
