package main

import (
	"context"
	"time"

	"github.com/syncup/syncup/config"
	"github.com/syncup/syncup/routes"
	"github.com/syncup/syncup/services"
	"github.com/syncup/syncup/store"
	"github.com/syncup/syncup/utils"
)

func main() {
	cfg, err := config.Load(config.DefaultConfigPath)
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		utils.Sugar.Fatalf("open database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	rc := utils.NewRedisClient(cfg)
	if rc != nil {
		defer rc.Close()
	}

	tokens := utils.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour, utils.NewTokenBlacklist(rc))
	repos := services.Repositories{
		Users:    store.NewUserRepository(db),
		Posts:    store.NewPostRepository(db),
		Likes:    store.NewLikeRepository(db),
		Comments: store.NewCommentRepository(db),
		Clubs:    store.NewClubRepository(db),
	}
	reg := services.NewRegistry(repos, tokens, utils.NewCache(rc), time.Duration(cfg.FeedCacheTTLSeconds)*time.Second)

	r := routes.SetupRouter(cfg, reg, tokens)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(context.Background(), ":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
	}
}
