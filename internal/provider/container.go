package provider

import (
	"github.com/stockbook/internal/cache"
	"github.com/stockbook/internal/config"
	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/models"
	"github.com/stockbook/internal/progress"
	"github.com/stockbook/internal/queue"
	"github.com/stockbook/internal/repository"
	"github.com/stockbook/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config        *config.Config
	Queue         *queue.Client
	ProgressStore progress.Store

	// Repositories
	ItemRepo         repository.ItemRepository
	StyleSummaryRepo repository.StyleSummaryRepository
	ActionRepo       repository.InventoryActionRepository
	UploadRepo       repository.FileUploadRepository
	LocationRepo     repository.LocationRepository

	// Services
	IngestService       *service.IngestService
	RetractionService   *service.RetractionService
	SeasonalDropService *service.SeasonalDropService
	CatalogService      *service.CatalogService
	ActionService       *service.ActionService
	LocationService     *service.LocationService
	ExportService       *service.ExportService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config: cfg,
		Queue:  queueClient,
	}

	// 进度存储优先走 Redis，不可用时退回进程内存
	if cache.Enabled() {
		c.ProgressStore = progress.NewRedisStore()
	} else {
		logger.Warnw("provider_progress_store_fallback_memory")
		c.ProgressStore = progress.NewMemoryStore()
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ItemRepo = repository.NewItemRepository(db)
	c.StyleSummaryRepo = repository.NewStyleSummaryRepository(db)
	c.ActionRepo = repository.NewInventoryActionRepository(db)
	c.UploadRepo = repository.NewFileUploadRepository(db)
	c.LocationRepo = repository.NewLocationRepository(db)
}

func (c *Container) initServices() {
	c.IngestService = service.NewIngestService(c.ItemRepo, c.StyleSummaryRepo, c.UploadRepo, c.ProgressStore, c.Config)
	c.RetractionService = service.NewRetractionService(c.ItemRepo, c.StyleSummaryRepo, c.ActionRepo, c.UploadRepo, c.Queue, c.Config)
	c.SeasonalDropService = service.NewSeasonalDropService(c.ItemRepo)
	c.CatalogService = service.NewCatalogService(c.ItemRepo, c.StyleSummaryRepo, c.ActionRepo, c.UploadRepo, c.LocationRepo)
	c.ActionService = service.NewActionService(c.ItemRepo, c.ActionRepo)
	c.LocationService = service.NewLocationService(c.LocationRepo)
	c.ExportService = service.NewExportService(c.ItemRepo)
}
