package service

import (
	"context"
	"sort"
	"time"

	"github.com/stockbook/internal/config"
	"github.com/stockbook/internal/constants"
	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/models"
	"github.com/stockbook/internal/progress"
	"github.com/stockbook/internal/repository"
	"github.com/stockbook/internal/sheet"

	"gorm.io/gorm"
)

// IngestService 快照导入服务：解析、图片提取与目录合并
type IngestService struct {
	items     repository.ItemRepository
	summaries repository.StyleSummaryRepository
	uploads   repository.FileUploadRepository
	store     progress.Store
	cfg       *config.Config
}

// NewIngestService 创建快照导入服务
func NewIngestService(
	items repository.ItemRepository,
	summaries repository.StyleSummaryRepository,
	uploads repository.FileUploadRepository,
	store progress.Store,
	cfg *config.Config,
) *IngestService {
	return &IngestService{items: items, summaries: summaries, uploads: uploads, store: store, cfg: cfg}
}

// IngestOptions 单次导入的选项
type IngestOptions struct {
	UploadImages bool   // 是否提取内嵌图片
	UploadID     string // 进度通道标识
}

// IngestResult 导入结果
type IngestResult struct {
	SourceFile      string `json:"source_file"`
	UploadID        string `json:"upload_id,omitempty"`
	StylesProcessed int    `json:"styles_processed"`
	ItemsSaved      int    `json:"items_saved"`
	ImagesUploaded  int    `json:"images_uploaded"`
	ImagesSkipped   int    `json:"images_skipped"`
	ImageCollisions int    `json:"image_collisions"`
}

// Ingest 把一份快照文件合并进目录。
// 目录写入在单个事务内完成，失败时整体回滚并把导入记录标记为 failed；
// 已落盘的图片不回滚，文件名由规范主键决定，重试时会被无害覆盖。
func (s *IngestService) Ingest(ctx context.Context, filePath, sourceFilename string, opts IngestOptions) (*IngestResult, error) {
	ttl := time.Duration(s.cfg.Intake.ProgressTTLHours) * time.Hour
	tracker := progress.NewTracker(s.store, opts.UploadID, sourceFilename, ttl)
	tracker.Stage(ctx, constants.IngestStageReceiving, 5, "")

	upload, err := s.upsertUploadRecord(sourceFilename)
	if err != nil {
		tracker.Fail(ctx, constants.IngestStageReceiving, err)
		return nil, err
	}

	tracker.Stage(ctx, constants.IngestStageParsing, 15, "")
	wb, err := sheet.Open(filePath)
	if err != nil {
		s.markUploadFailed(upload)
		tracker.Fail(ctx, constants.IngestStageParsing, err)
		return nil, err
	}
	defer wb.Close()

	result := &IngestResult{SourceFile: sourceFilename, UploadID: opts.UploadID}

	if opts.UploadImages {
		tracker.Stage(ctx, constants.IngestStageImages, 40, "")
		extract, err := wb.ExtractImages(s.cfg.Images.Dir, s.cfg.Images.JPEGQuality)
		if err != nil {
			// 图片提取失败不终止合并，计入跳过并继续
			logger.Warnw("snapshot_image_extract_failed",
				"source_file", sourceFilename,
				"error", err,
			)
		}
		result.ImagesUploaded = extract.Extracted
		result.ImagesSkipped = extract.Skipped
		result.ImageCollisions = extract.Collisions
	}

	tracker.Stage(ctx, constants.IngestStageMerging, 60, "")
	err = s.items.Transaction(func(tx *gorm.DB) error {
		itemsTx := s.items.WithTx(tx)
		summariesTx := s.summaries.WithTx(tx)
		for _, group := range wb.Groups() {
			for _, row := range group.Rows {
				if err := mergeItem(itemsTx, row, sourceFilename); err != nil {
					return err
				}
				result.ItemsSaved++
			}
			if err := mergeSummary(summariesTx, group, sourceFilename); err != nil {
				return err
			}
			result.StylesProcessed++
		}
		return nil
	})
	if err != nil {
		s.markUploadFailed(upload)
		tracker.Fail(ctx, constants.IngestStageMerging, err)
		return nil, err
	}

	tracker.Stage(ctx, constants.IngestStageSummaries, 90, "")
	upload.StylesCount = result.StylesProcessed
	upload.ItemsCount = result.ItemsSaved
	upload.ImagesUploaded = result.ImagesUploaded
	upload.ImagesSkipped = result.ImagesSkipped
	upload.Status = constants.UploadStatusCompleted
	if err := s.uploads.Save(upload); err != nil {
		tracker.Fail(ctx, constants.IngestStageSummaries, err)
		return nil, err
	}

	tracker.Complete(ctx, constants.IngestStageCompleted, "")
	logger.Infow("snapshot_ingested",
		"source_file", sourceFilename,
		"styles_processed", result.StylesProcessed,
		"items_saved", result.ItemsSaved,
		"images_uploaded", result.ImagesUploaded,
		"image_collisions", result.ImageCollisions,
	)
	return result, nil
}

// mergeItem 合并一行数据：已存在时覆盖描述字段并并集来源，否则以 pending 状态新建
func mergeItem(items repository.ItemRepository, row sheet.Row, sourceFilename string) error {
	id := sheet.ItemID(row.PaddedStyle, row.Color)
	existing, err := items.GetByID(id, false)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Division = row.Division
		existing.Outsole = row.Outsole
		existing.Gender = row.Gender
		if row.ImageURL != "" {
			existing.ImageURL = row.ImageURL
		}
		existing.SourceFiles = unionSorted(existing.SourceFiles, sourceFilename)
		return items.Save(existing)
	}
	return items.Create(&models.Item{
		ID:          id,
		Style:       row.PaddedStyle,
		Color:       row.Color,
		Division:    row.Division,
		Outsole:     row.Outsole,
		Gender:      row.Gender,
		ImageURL:    row.ImageURL,
		SourceFiles: models.StringArray{sourceFilename},
		Status:      constants.ItemStatusPending,
	})
}

// mergeSummary 合并款式汇总：颜色取排序去重并集，颜色数按并集重算
func mergeSummary(summaries repository.StyleSummaryRepository, group *sheet.StyleGroup, sourceFilename string) error {
	existing, err := summaries.GetByStyle(group.PaddedStyle)
	if err != nil {
		return err
	}
	if existing != nil {
		merged := unionSorted(existing.AllColors, group.Colors...)
		existing.AllColors = merged
		existing.ColorCount = len(merged)
		existing.Division = group.Division
		existing.Outsole = group.Outsole
		existing.Gender = group.Gender
		existing.SourceFiles = unionSorted(existing.SourceFiles, sourceFilename)
		return summaries.Save(existing)
	}
	return summaries.Create(&models.StyleSummary{
		Style:       group.PaddedStyle,
		AllColors:   models.StringArray(group.Colors),
		Division:    group.Division,
		Outsole:     group.Outsole,
		Gender:      group.Gender,
		SourceFiles: models.StringArray{sourceFilename},
		ColorCount:  len(group.Colors),
	})
}

func (s *IngestService) upsertUploadRecord(sourceFilename string) (*models.FileUpload, error) {
	upload, err := s.uploads.GetByFilename(sourceFilename)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		upload = &models.FileUpload{
			Filename: sourceFilename,
			Status:   constants.UploadStatusProcessing,
		}
		if err := s.uploads.Create(upload); err != nil {
			return nil, err
		}
		return upload, nil
	}
	upload.Status = constants.UploadStatusProcessing
	upload.StylesCount = 0
	upload.ItemsCount = 0
	upload.ImagesUploaded = 0
	upload.ImagesSkipped = 0
	if err := s.uploads.Save(upload); err != nil {
		return nil, err
	}
	return upload, nil
}

func (s *IngestService) markUploadFailed(upload *models.FileUpload) {
	if upload == nil {
		return
	}
	upload.Status = constants.UploadStatusFailed
	if err := s.uploads.Save(upload); err != nil {
		logger.Errorw("upload_record_mark_failed_error",
			"filename", upload.Filename,
			"error", err,
		)
	}
}

// unionSorted 求字符串集合并集并排序去重
func unionSorted(existing []string, added ...string) models.StringArray {
	set := make(map[string]struct{}, len(existing)+len(added))
	for _, value := range existing {
		set[value] = struct{}{}
	}
	for _, value := range added {
		set[value] = struct{}{}
	}
	merged := make([]string, 0, len(set))
	for value := range set {
		merged = append(merged, value)
	}
	sort.Strings(merged)
	return models.StringArray(merged)
}
