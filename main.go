package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SProject/global"
	"SProject/logger"
	"SProject/service/chat"
	"SProject/service/storage"
	"SProject/tools/security"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := global.LoadConfig()
	if err != nil {
		logger.Errorf("load config: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := storage.OpenMongo(ctx, storage.MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	if err != nil {
		logger.Errorf("mongo: %v", err)
		os.Exit(1)
	}

	var mirror chat.PresenceMirror
	rdb, err := storage.OpenRedis(ctx, storage.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		// The mirror is best effort; run without it rather than refuse to start.
		logger.Warnf("redis unavailable, presence mirror disabled: %v", err)
	} else {
		mirror = storage.NewRedisPresence(rdb, 0)
	}

	users := storage.NewUserStore(db)
	convs := storage.NewConversationStore(db)

	gate := chat.NewAuthGate(security.DefaultOptions([]byte(cfg.JWTSecret)), users)

	srv := chat.NewServer(cfg.GatewayID, chat.ServerConf{
		SendQueueSize: cfg.SendQueueSize,
		FanoutWorkers: cfg.FanoutWorkers,
		FanoutQueue:   cfg.FanoutQueue,
	}, gate, convs, users, mirror)

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/ws", srv.HandleWS)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"gateway": srv.GwID(),
			"conns":   srv.Registry().ConnCount(),
			"users":   srv.Registry().UserCount(),
		})
	})

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		logger.Infof("gateway %s listening on %s", cfg.GatewayID, cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("http serve: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutCtx)
	srv.Close()
}
