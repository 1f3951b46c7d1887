package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/stockbook/internal/config"
	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/models"
	"github.com/stockbook/internal/queue"
	"github.com/stockbook/internal/repository"

	"gorm.io/gorm"
)

// RetractionService 快照撤回服务：精确抵消一次导入对目录的全部影响
type RetractionService struct {
	items     repository.ItemRepository
	summaries repository.StyleSummaryRepository
	actions   repository.InventoryActionRepository
	uploads   repository.FileUploadRepository
	queue     *queue.Client
	cfg       *config.Config
}

// NewRetractionService 创建快照撤回服务
func NewRetractionService(
	items repository.ItemRepository,
	summaries repository.StyleSummaryRepository,
	actions repository.InventoryActionRepository,
	uploads repository.FileUploadRepository,
	queueClient *queue.Client,
	cfg *config.Config,
) *RetractionService {
	return &RetractionService{
		items:     items,
		summaries: summaries,
		actions:   actions,
		uploads:   uploads,
		queue:     queueClient,
		cfg:       cfg,
	}
}

// RetractionResult 撤回结果
type RetractionResult struct {
	SourceFile     string `json:"source_file"`
	ItemsDeleted   int    `json:"items_deleted"`
	ItemsUpdated   int    `json:"items_updated"`
	StylesDeleted  int    `json:"styles_deleted"`
	StylesUpdated  int    `json:"styles_updated"`
	ActionsDeleted int    `json:"actions_deleted"`
}

// Retract 撤回一份快照的全部贡献。
// 来源集合只剩该快照的单品被删除，其余单品仅移除来源；
// 汇总按撤回后现存单品重算颜色列表，空款式汇总被删除；
// 关联流水与导入记录一并删除。整个操作在单个事务内完成。
func (s *RetractionService) Retract(ctx context.Context, sourceFilename string) (*RetractionResult, error) {
	upload, err := s.uploads.GetByFilename(sourceFilename)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, ErrNotFound
	}

	result := &RetractionResult{SourceFile: sourceFilename}
	var removedImageFiles []string

	err = s.items.Transaction(func(tx *gorm.DB) error {
		itemsTx := s.items.WithTx(tx)
		summariesTx := s.summaries.WithTx(tx)
		actionsTx := s.actions.WithTx(tx)
		uploadsTx := s.uploads.WithTx(tx)

		items, err := itemsTx.ListBySourceFile(sourceFilename)
		if err != nil {
			return err
		}
		for i := range items {
			item := &items[i]
			if len(item.SourceFiles) <= 1 {
				if err := itemsTx.Delete(item.ID); err != nil {
					return err
				}
				removedImageFiles = append(removedImageFiles, item.ID+".jpg")
				result.ItemsDeleted++
				continue
			}
			item.SourceFiles = removeString(item.SourceFiles, sourceFilename)
			if err := itemsTx.Save(item); err != nil {
				return err
			}
			result.ItemsUpdated++
		}

		summaries, err := summariesTx.ListBySourceFile(sourceFilename)
		if err != nil {
			return err
		}
		for i := range summaries {
			summary := &summaries[i]
			colors, err := itemsTx.DistinctColorsByStyle(summary.Style)
			if err != nil {
				return err
			}
			if len(colors) == 0 {
				if err := summariesTx.Delete(summary.Style); err != nil {
					return err
				}
				result.StylesDeleted++
				continue
			}
			summary.AllColors = models.StringArray(colors)
			summary.ColorCount = len(colors)
			summary.SourceFiles = removeString(summary.SourceFiles, sourceFilename)
			if err := summariesTx.Save(summary); err != nil {
				return err
			}
			result.StylesUpdated++
		}

		deleted, err := actionsTx.DeleteBySourceFile(sourceFilename)
		if err != nil {
			return err
		}
		result.ActionsDeleted = int(deleted)

		return uploadsTx.DeleteByFilename(sourceFilename)
	})
	if err != nil {
		return nil, err
	}

	s.cleanupArtifacts(sourceFilename, removedImageFiles)
	logger.Infow("snapshot_retracted",
		"source_file", sourceFilename,
		"items_deleted", result.ItemsDeleted,
		"items_updated", result.ItemsUpdated,
		"styles_deleted", result.StylesDeleted,
		"styles_updated", result.StylesUpdated,
		"actions_deleted", result.ActionsDeleted,
	)
	return result, nil
}

// cleanupArtifacts 清理归档文件与被删单品的图片。
// 队列可用时异步执行，否则就地删除；清理失败只记日志，不影响撤回结果。
func (s *RetractionService) cleanupArtifacts(sourceFilename string, imageFiles []string) {
	payload := queue.ArtifactCleanupPayload{Filename: sourceFilename, ImageFiles: imageFiles}
	if s.queue.Enabled() {
		err := s.queue.EnqueueArtifactCleanup(payload)
		if err == nil {
			return
		}
		logger.Warnw("artifact_cleanup_enqueue_failed",
			"source_file", sourceFilename,
			"error", err,
		)
	}
	CleanupArtifacts(s.cfg, payload)
}

// CleanupArtifacts 删除快照归档与图片产物，供同步回退与队列消费方共用
func CleanupArtifacts(cfg *config.Config, payload queue.ArtifactCleanupPayload) {
	archived := filepath.Join(cfg.Intake.ArchiveDir, payload.Filename)
	if err := os.Remove(archived); err != nil && !os.IsNotExist(err) {
		logger.Warnw("snapshot_archive_remove_failed",
			"path", archived,
			"error", err,
		)
	}
	for _, name := range payload.ImageFiles {
		path := filepath.Join(cfg.Images.Dir, filepath.Base(name))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warnw("snapshot_image_remove_failed",
				"path", path,
				"error", err,
			)
		}
	}
}

// removeString 从集合中移除指定值，保持原有顺序
func removeString(values models.StringArray, target string) models.StringArray {
	filtered := make(models.StringArray, 0, len(values))
	for _, value := range values {
		if value == target {
			continue
		}
		filtered = append(filtered, value)
	}
	return filtered
}
