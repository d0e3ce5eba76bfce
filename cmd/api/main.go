// main.go - The entry point and router setup.

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

	"github.com/eduparser/edu_parser_gemini/configs"
	"github.com/eduparser/edu_parser_gemini/internal/ai"
	"github.com/eduparser/edu_parser_gemini/internal/api"
	"github.com/eduparser/edu_parser_gemini/internal/storage"
)

func main() {
	configs.LoadConfig()

	if ginMode := os.Getenv("GIN_MODE"); ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := os.MkdirAll(configs.UPLOAD_DIR, 0755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// MongoDB is an optional master-data source; spreadsheet uploads cover
	// everything when it is absent.
	if configs.MONGO_ENABLED {
		if err := storage.InitMongoDB(); err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer storage.CloseMongoDB()
	}

	router := gin.Default()

	// CORS middleware - configure allowed origins for production
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", configs.ALLOWED_ORIGINS)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Root endpoint for SSL verification
	router.GET("/", func(c *gin.Context) {
		c.String(200, "ok")
	})

	server := api.NewServer(ai.NewProviderFromConfig())
	server.RegisterRoutes(router)

	srv := &http.Server{
		Addr:           ":" + configs.PORT,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   3 * time.Minute, // Allow up to 3 minutes for AI processing
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Starting server on :%s", configs.PORT)
		log.Println("API Endpoints:")
		log.Println("  POST /api/v1/parse-document")
		log.Println("  POST /api/v1/parse-cv")
		log.Println("  POST /api/v1/merge-records")
		log.Println("  POST /api/v1/standardize-schools")
		log.Println("  POST /api/v1/export-oracle")
		log.Println("  POST /api/v1/clear-results")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
