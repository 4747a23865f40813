package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storagemarket/web/internal/api/handlers"
	"storagemarket/web/internal/api/middleware"
	"storagemarket/web/internal/config"
	"storagemarket/web/internal/email"
	"storagemarket/web/internal/logging"
	"storagemarket/web/internal/services"
	"storagemarket/web/internal/storage"
	"storagemarket/web/internal/store"
)

// SetupRouter configures and returns the main Gin engine.
// media and notifier may be nil: uploads are then rejected and no confirmation is sent.
func SetupRouter(cfg *config.Config, listings store.IListingStore, media storage.IMediaStore, notifier services.IListingNotifier) *gin.Engine {
	if err := handlers.RegisterValidators(); err != nil {
		logging.Logger.Fatalf("CRITICAL: Failed to register request validators: %v", err)
	}

	browseService := services.NewBrowseService(listings)
	detailService := services.NewDetailService(listings)
	submissionService := services.NewSubmissionService(cfg, listings, media, notifier)
	locationService := services.NewLocationService()

	r := gin.Default()
	r.MaxMultipartMemory = cfg.ImageMaxSizeBytes() + 1<<20

	r.Use(middleware.CORSMiddleware(cfg.CorsAllowedOrigin))

	// Initialize handlers
	restListingHandler := handlers.NewRestListingHandler(browseService, detailService, submissionService, cfg.ImageMaxSizeBytes())
	restLocationHandler := handlers.NewRestLocationHandler(locationService)

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Listing routes
		v1.GET("/listings", restListingHandler.ListListings)
		v1.GET("/listings/:id", restListingHandler.GetListingByID)
		v1.POST("/listings", restListingHandler.SubmitListing)

		// Submission form reference data
		v1.GET("/locations/suggest", restLocationHandler.SuggestLocations)
		v1.GET("/unit-types", restLocationHandler.ListUnitTypes)
		v1.GET("/images/default", restLocationHandler.GetDefaultImage)
	}

	return r
}

// SetupServiceRouter configures and returns the service Gin engine.
// rdb backs the getTestEmail method and may be nil.
func SetupServiceRouter(cfg *config.Config, rdb *redis.Client, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			logging.Logger.Info("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
				logging.Logger.Info("Shutdown signal sent")
			default:
				logging.Logger.Warn("Shutdown channel already signaled or blocked")
			}
		case "getTestEmail":
			getTestEmail(c, rdb, req.Arguments)
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}

// getTestEmail returns and deletes the mock email stored by email.RedisSender.
// Arguments: ["kind", "email"].
func getTestEmail(c *gin.Context, rdb *redis.Client, rawArgs json.RawMessage) {
	var args []string
	if err := json.Unmarshal(rawArgs, &args); err != nil || len(args) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [kind, email]"})
		return
	}
	if rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Redis not configured"})
		return
	}
	redisKey := email.MockEmailKey(args[1], args[0])

	// Poll Redis briefly for the key
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var emailJSON string
	found := false
	for i := 0; i < 10; i++ {
		var getErr error
		emailJSON, getErr = rdb.Get(ctx, redisKey).Result()
		if getErr == nil {
			found = true
			rdb.Del(ctx, redisKey)
			break
		}
		if !errors.Is(getErr, redis.Nil) {
			logging.Logger.WithError(getErr).WithField("key", redisKey).Error("Service API: Redis read failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
			return
		}
		time.Sleep(200 * time.Millisecond)
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test email not found in Redis for key %s", redisKey)})
		return
	}

	var stored email.MockEmail
	if err := json.Unmarshal([]byte(emailJSON), &stored); err != nil {
		logging.Logger.WithError(err).WithField("key", redisKey).Error("Service API: stored email is not valid JSON")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to parse stored email data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stored})
}
