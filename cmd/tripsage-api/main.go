// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tripsage/internal/app"
	httptransport "tripsage/internal/http"
	"tripsage/internal/infra"
	"tripsage/internal/modules/aiusage"
	"tripsage/internal/modules/session"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	estimator, closeEstimator, err := app.NewEstimator(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeEstimator()

	var store session.Store
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal(err)
		}
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient, cfg.Session.TTL)
	} else {
		log.Info("TRIPSAGE_REDIS_ADDR not set; keeping session slots in memory")
		store = session.NewMemoryStore(cfg.Session.TTL)
	}

	var quotaSvc *aiusage.Service
	var quota session.Quota
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer dbPool.Close()
		quotaSvc = aiusage.NewService(aiusage.NewStore(dbPool, cfg.Quota.Monthly))
		quota = quotaSvc
	} else {
		log.Info("TRIPSAGE_DB_DSN not set; estimation quota disabled")
	}

	server := httptransport.NewServer(httptransport.ServerDeps{
		Addr:      cfg.HTTP.Addr,
		Sessions:  session.NewService(store, estimator, quota),
		Quota:     quotaSvc,
		AITimeout: cfg.AI.Timeout,
	})

	if err := server.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
