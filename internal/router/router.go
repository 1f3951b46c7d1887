package router

import (
	"fmt"
	"strings"

	"github.com/stockbook/internal/cache"
	"github.com/stockbook/internal/config"
	cataloghandlers "github.com/stockbook/internal/http/handlers/catalog"
	intakehandlers "github.com/stockbook/internal/http/handlers/intake"
	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按读取/写入分组）
	catalogHandler := cataloghandlers.New(c)
	intakeHandler := intakehandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sb"
	}
	redisClient := cache.Client()
	ingestRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:ingest", redisPrefix),
		WindowSeconds: cfg.Security.IngestRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.IngestRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.IngestRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（提取出的单品图片）
	r.Static("/images", cfg.Images.Dir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 快照导入与生命周期
		snapshots := apiV1.Group("/snapshots")
		{
			snapshots.POST("", RateLimitMiddleware(redisClient, ingestRule, KeyByIP), intakeHandler.UploadSnapshot)
			snapshots.GET("", catalogHandler.ListSnapshots)
			snapshots.GET("/progress/:upload_id", intakeHandler.GetUploadProgress)
			snapshots.GET("/:filename/items", catalogHandler.ListSnapshotItems)
			snapshots.DELETE("/:filename", intakeHandler.RetractSnapshot)
		}
		apiV1.POST("/seasonal-drop", RateLimitMiddleware(redisClient, ingestRule, KeyByIP), intakeHandler.SeasonalDrop)

		// 款式与单品
		styles := apiV1.Group("/styles")
		{
			styles.GET("", catalogHandler.ListStyleSummaries)
			styles.GET("/:style", catalogHandler.ScanStyle)
		}
		items := apiV1.Group("/items")
		{
			items.GET("", catalogHandler.SearchItems)
			items.GET("/pending", catalogHandler.ListPendingItems)
			items.GET("/stats", catalogHandler.GetStats)
			items.GET("/:id/profile", catalogHandler.GetItemProfile)
			items.PUT("/:id/status", intakeHandler.UpdateItemStatus)
			items.PUT("/:id/location", intakeHandler.UpdateItemLocation)
			items.PUT("/bulk-status", intakeHandler.BulkUpdateItemStatus)
		}

		// 操作流水
		actions := apiV1.Group("/actions")
		{
			actions.GET("", catalogHandler.ListActions)
			actions.POST("", intakeHandler.RecordAction)
		}

		// 仓位
		locations := apiV1.Group("/locations")
		{
			locations.GET("/layout", catalogHandler.GetWarehouseLayout)
			locations.GET("/rooms", catalogHandler.ListRooms)
			locations.POST("/rooms", intakeHandler.CreateRoom)
			locations.DELETE("/rooms/:id", intakeHandler.DeleteRoom)
			locations.GET("/shelves", catalogHandler.ListShelves)
			locations.POST("/rooms/:id/shelves", intakeHandler.CreateShelf)
			locations.DELETE("/shelves/:id", intakeHandler.DeleteShelf)
			locations.GET("/rows", catalogHandler.ListRows)
			locations.POST("/shelves/:id/rows", intakeHandler.CreateRow)
			locations.DELETE("/rows/:id", intakeHandler.DeleteRow)
		}

		// 下架报表
		dropped := apiV1.Group("/dropped-items")
		{
			dropped.GET("/report", catalogHandler.GetDroppedReport)
			dropped.GET("/export", catalogHandler.ExportDroppedItems)
		}
	}

	return r
}
