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
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/danuarta/perpustakaan-app/config"
	"github.com/danuarta/perpustakaan-app/database"
	"github.com/danuarta/perpustakaan-app/middlewares"
	"github.com/danuarta/perpustakaan-app/router"
	"github.com/danuarta/perpustakaan-app/services"
	"github.com/danuarta/perpustakaan-app/utils"
)

func init() {
	// Load .env sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InfoLogger = logrus.New()
	utils.ErrorLogger = logrus.New()

	utils.InfoLogger.SetOutput(os.Stdout)
	utils.ErrorLogger.SetOutput(os.Stderr)

	utils.InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
	utils.ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
}

func main() {
	cfg := config.Load()

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := database.Open(cfg.DBPath)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open store: %v", err)
	}

	flusher := services.NewFlusher(store, cfg.FlushInterval)

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(store, flusher)
	r.Use(rateLimiter.RateLimit())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s (db: %s)", cfg.Port, cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.ErrorLogger.Fatalf("Server error: %v", err)
		}
	}()

	// Shutdown rapi: stop HTTP dulu, lalu flush terakhir sebelum keluar.
	// Flush terakhir inilah yang menjamin tidak ada data hilang saat
	// terminasi bersih, meski jendela debounce belum lewat.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown error: %v", err)
	}

	if err := flusher.Stop(); err != nil {
		utils.ErrorLogger.Printf("Final flush failed: %v", err)
	}
	if err := store.Close(); err != nil {
		utils.ErrorLogger.Printf("Store close error: %v", err)
	}

	utils.InfoLogger.Println("Shutdown complete")
}
