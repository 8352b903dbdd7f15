package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mrgear111/GROW/internal/cache"
	"github.com/mrgear111/GROW/internal/config"
	"github.com/mrgear111/GROW/internal/handlers"
	"github.com/mrgear111/GROW/internal/repo"
	"github.com/mrgear111/GROW/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup wires repositories, services and handlers and registers all routes.
// rdb may be nil, in which case the task list cache is disabled.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) error {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	taskRepo := repo.NewPGTaskRepo(db)
	categoryRepo := repo.NewPGCategoryRepo(db)

	var taskCache *cache.TaskCache
	if rdb != nil {
		taskCache = cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}

	taskSvc := service.NewTaskService(taskRepo, categoryRepo, taskCache)
	categorySvc := service.NewCategoryService(categoryRepo)

	// First-run seeding of the default category set.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := categorySvc.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	taskHandler := handlers.NewTaskHandler(taskSvc)
	categoryHandler := handlers.NewCategoryHandler(categorySvc)
	statsHandler := handlers.NewStatsHandler(taskSvc)

	registerTaskRoutes(r, taskHandler)
	registerCategoryRoutes(r, categoryHandler)
	r.GET("/stats/streak", statsHandler.Streak)
	r.POST("/debug/fix-tasks", taskHandler.Repair)

	return nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "GROW Task API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(r *gin.Engine, h *handlers.TaskHandler) {
	r.POST("/tasks", h.Create)
	r.GET("/tasks", h.List)
	r.GET("/tasks/:id", h.GetByID)
	r.PATCH("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
}

func registerCategoryRoutes(r *gin.Engine, h *handlers.CategoryHandler) {
	r.GET("/categories", h.List)
	r.POST("/categories", h.Create)
}
