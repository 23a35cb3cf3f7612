// @title           Partner Portal API
// @version         1.0
// @description     Product catalog, quoting and content distribution API.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @schemes http https
package main

import (
	_ "backend/docs"
	"backend/handlers"
	"backend/storage"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:9000",
	}
	if origin := os.Getenv("PORTAL_BASE_URL"); origin != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization",
		"Cache-Control", "X-User-Role",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Content-Type", "Content-Disposition",
	}
	return corsConfig
}

func main() {
	db := storage.InitDB()
	defer db.Close()

	gormDB := storage.InitGormDB()
	if err := storage.AutoMigrateContentTables(gormDB); err != nil {
		log.Fatal("Failed to migrate content tables:", err)
	}
	literatureStore := storage.NewLiteratureStore(gormDB)

	// Nightly housekeeping: expired download tokens and abandoned drafts.
	c := cron.New()
	if _, err := c.AddFunc("30 2 * * *", func() {
		if n, err := literatureStore.CleanupExpiredTokens(); err != nil {
			log.Printf("Token cleanup failed: %v", err)
		} else if n > 0 {
			log.Printf("Cleaned up %d expired download tokens", n)
		}
		storage.CleanupAbandonedQuotes(db, 30*24*time.Hour)
	}); err != nil {
		log.Fatal("Failed to schedule cleanup job:", err)
	}
	c.Start()
	defer c.Stop()

	r := gin.Default()
	r.Use(cors.New(CORSConfig()))

	// Catalogs and parts
	r.GET("/api/catalogs", handlers.GetCatalogs(db))
	r.GET("/api/catalogs/assigned", handlers.GetAssignedCatalog(db))
	r.PUT("/api/catalogs/master", handlers.RequireContractRole(), handlers.SetMasterCatalog(db))
	r.GET("/api/parts/search", handlers.SearchParts(db))
	r.POST("/api/parts/resolve", handlers.ResolveParts(db))

	// Quotes
	r.POST("/api/quote_price", handlers.PriceQuote(db))
	r.POST("/api/quotes", handlers.SaveQuote(db))
	r.GET("/api/quotes", handlers.ListQuotes(db))
	r.GET("/api/quotes/:id", handlers.GetQuote(db))
	r.DELETE("/api/quotes/:id", handlers.DeleteQuote(db))
	r.POST("/api/quotes/:id/items", handlers.AddQuoteItems(db))
	r.DELETE("/api/quotes/:id/items/:partId", handlers.DeleteQuoteItem(db))
	r.PUT("/api/quotes/:id/apply", handlers.BulkApplyPricing(db))
	r.GET("/api/quotes/:id/proposal", handlers.GenerateProposalPdf(db))

	// Price contracts
	r.GET("/api/contracts", handlers.ListPriceContracts(db))
	r.GET("/api/contracts/:id", handlers.GetPriceContract(db))
	r.GET("/api/contracts/:id/export", handlers.ExportPriceContractXLSX(db))
	contractAdmin := r.Group("/api/contracts", handlers.RequireContractRole())
	{
		contractAdmin.POST("", handlers.CreatePriceContract(db))
		contractAdmin.POST("/import", handlers.ImportPriceContractXLSX(db))
	}

	// Content library
	r.GET("/api/literature", handlers.SearchLiterature(literatureStore))
	r.POST("/api/literature", handlers.CreateLiterature(literatureStore))
	r.DELETE("/api/literature/:id", handlers.DeleteLiterature(literatureStore))
	r.GET("/api/literature/:id/download-link", handlers.GetLiteratureDownloadLink(literatureStore))
	r.GET("/api/videos", handlers.SearchVideos(literatureStore))
	r.POST("/api/videos", handlers.CreateVideo(literatureStore))
	r.DELETE("/api/videos/:id", handlers.DeleteVideo(literatureStore))
	r.GET("/api/videos/:id/download-link", handlers.GetVideoDownloadLink(literatureStore))
	r.GET("/api/downloads/redeem", handlers.RedeemDownloadLink(literatureStore))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exited")
}
