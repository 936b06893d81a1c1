package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"healthguard/pkg/api"
	"healthguard/pkg/config"
	"healthguard/pkg/predict"
	"healthguard/pkg/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	store, closeStore, err := cfg.OpenStore(ctx)
	if err != nil {
		log.Fatalf("open model store: %v", err)
	}
	defer closeStore()

	var db api.HealthChecker
	if hc, ok := store.(api.HealthChecker); ok {
		db = hc
	}

	svc := predict.NewService(registry.New(store), predict.WithFillPolicy(cfg.Fill()))
	router := api.NewRouter(svc, db)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	log.Printf("server listening on :%s (models from %s, fill policy %s)", cfg.Port, describeStore(cfg), cfg.FillPolicy)
	waitForShutdown(server)
}

func describeStore(cfg *config.Config) string {
	if cfg.EnableDB {
		return "postgres"
	}
	return cfg.ModelDir
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
