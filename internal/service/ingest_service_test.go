package service

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stockbook/internal/config"
	"github.com/stockbook/internal/constants"
	"github.com/stockbook/internal/models"
	"github.com/stockbook/internal/progress"
	"github.com/stockbook/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db        *gorm.DB
	items     repository.ItemRepository
	summaries repository.StyleSummaryRepository
	actions   repository.InventoryActionRepository
	uploads   repository.FileUploadRepository
	locations repository.LocationRepository
	store     *progress.MemoryStore
	cfg       *config.Config
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.Room{},
		&models.Shelf{},
		&models.ShelfRow{},
		&models.Item{},
		&models.StyleSummary{},
		&models.InventoryAction{},
		&models.FileUpload{},
	)
	if err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.Intake.ArchiveDir = t.TempDir()
	cfg.Intake.ProgressTTLHours = 1
	cfg.Images.Dir = t.TempDir()
	cfg.Images.JPEGQuality = 95
	return &serviceTestEnv{
		db:        db,
		items:     repository.NewItemRepository(db),
		summaries: repository.NewStyleSummaryRepository(db),
		actions:   repository.NewInventoryActionRepository(db),
		uploads:   repository.NewFileUploadRepository(db),
		locations: repository.NewLocationRepository(db),
		store:     progress.NewMemoryStore(),
		cfg:       cfg,
	}
}

func (env *serviceTestEnv) ingestService() *IngestService {
	return NewIngestService(env.items, env.summaries, env.uploads, env.store, env.cfg)
}

func (env *serviceTestEnv) retractionService() *RetractionService {
	return NewRetractionService(env.items, env.summaries, env.actions, env.uploads, nil, env.cfg)
}

// writeSnapshot 生成一份最小快照工作簿，行格式为 style/color/division/outsole/gender
func writeSnapshot(t *testing.T, filename string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := []string{"STYLE", "COLOR", "DIVISION", "OUTSOLE", "GENDER"}
	for i, name := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}
	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, value)
		}
	}
	path := filepath.Join(t.TempDir(), filename)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save snapshot workbook failed: %v", err)
	}
	return path
}

func mustGetItem(t *testing.T, env *serviceTestEnv, id string) *models.Item {
	t.Helper()
	item, err := env.items.GetByID(id, false)
	if err != nil {
		t.Fatalf("get item %s failed: %v", id, err)
	}
	if item == nil {
		t.Fatalf("item %s not found", id)
	}
	return item
}

func TestIngestIsIdempotent(t *testing.T) {
	env := setupServiceTest(t)
	svc := env.ingestService()
	path := writeSnapshot(t, "feed_a.xlsx", [][]string{
		{"10045", "BLK", "Lifestyle", "Rubber", "M"},
		{"10045", "WHT", "Lifestyle", "Rubber", "M"},
	})

	first, err := svc.Ingest(context.Background(), path, "feed_a.xlsx", IngestOptions{})
	if err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	second, err := svc.Ingest(context.Background(), path, "feed_a.xlsx", IngestOptions{})
	if err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}
	if first.ItemsSaved != 2 || second.ItemsSaved != 2 {
		t.Fatalf("expected 2 items saved per run, got %d then %d", first.ItemsSaved, second.ItemsSaved)
	}

	items, total, err := env.items.List(repository.ItemListFilter{})
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 items after repeat ingest, got %d", total)
	}
	for _, item := range items {
		if !reflect.DeepEqual([]string(item.SourceFiles), []string{"feed_a.xlsx"}) {
			t.Fatalf("item %s provenance changed on repeat ingest: %v", item.ID, item.SourceFiles)
		}
	}

	summary, err := env.summaries.GetByStyle("010045")
	if err != nil || summary == nil {
		t.Fatalf("summary lookup failed: %v", err)
	}
	if summary.ColorCount != 2 {
		t.Fatalf("expected color count 2, got %d", summary.ColorCount)
	}

	upload, err := env.uploads.GetByFilename("feed_a.xlsx")
	if err != nil || upload == nil {
		t.Fatalf("upload record lookup failed: %v", err)
	}
	if upload.Status != constants.UploadStatusCompleted {
		t.Fatalf("expected completed upload record, got %q", upload.Status)
	}
	if upload.ItemsCount != 2 || upload.StylesCount != 1 {
		t.Fatalf("unexpected upload counts: items=%d styles=%d", upload.ItemsCount, upload.StylesCount)
	}
}

func TestIngestUnionsProvenanceAcrossSnapshots(t *testing.T) {
	env := setupServiceTest(t)
	svc := env.ingestService()
	pathA := writeSnapshot(t, "feed_a.xlsx", [][]string{
		{"10045", "BLK", "Lifestyle", "Rubber", "M"},
	})
	pathB := writeSnapshot(t, "feed_b.xlsx", [][]string{
		{"10045", "BLK", "Performance", "EVA", "W"},
		{"204", "RED", "Lifestyle", "Rubber", "M"},
	})

	if _, err := svc.Ingest(context.Background(), pathA, "feed_a.xlsx", IngestOptions{}); err != nil {
		t.Fatalf("ingest feed_a failed: %v", err)
	}
	if _, err := svc.Ingest(context.Background(), pathB, "feed_b.xlsx", IngestOptions{}); err != nil {
		t.Fatalf("ingest feed_b failed: %v", err)
	}

	shared := mustGetItem(t, env, "010045_BLK")
	if !reflect.DeepEqual([]string(shared.SourceFiles), []string{"feed_a.xlsx", "feed_b.xlsx"}) {
		t.Fatalf("expected sorted union of both feeds, got %v", shared.SourceFiles)
	}
	if shared.Division != "Performance" || shared.Outsole != "EVA" || shared.Gender != "W" {
		t.Fatalf("descriptive fields should follow the latest snapshot: %+v", shared)
	}

	exclusive := mustGetItem(t, env, "000204_RED")
	if !reflect.DeepEqual([]string(exclusive.SourceFiles), []string{"feed_b.xlsx"}) {
		t.Fatalf("expected single-feed provenance, got %v", exclusive.SourceFiles)
	}

	summary, err := env.summaries.GetByStyle("010045")
	if err != nil || summary == nil {
		t.Fatalf("summary lookup failed: %v", err)
	}
	if !reflect.DeepEqual([]string(summary.SourceFiles), []string{"feed_a.xlsx", "feed_b.xlsx"}) {
		t.Fatalf("expected summary provenance union, got %v", summary.SourceFiles)
	}
}

func TestRetractRemovesOnlySnapshotContribution(t *testing.T) {
	env := setupServiceTest(t)
	svc := env.ingestService()
	pathA := writeSnapshot(t, "feed_a.xlsx", [][]string{
		{"10045", "BLK", "Lifestyle", "Rubber", "M"},
		{"10045", "WHT", "Lifestyle", "Rubber", "M"},
	})
	pathB := writeSnapshot(t, "feed_b.xlsx", [][]string{
		{"10045", "WHT", "Lifestyle", "Rubber", "M"},
		{"204", "RED", "Lifestyle", "Rubber", "M"},
	})
	if _, err := svc.Ingest(context.Background(), pathA, "feed_a.xlsx", IngestOptions{}); err != nil {
		t.Fatalf("ingest feed_a failed: %v", err)
	}
	if _, err := svc.Ingest(context.Background(), pathB, "feed_b.xlsx", IngestOptions{}); err != nil {
		t.Fatalf("ingest feed_b failed: %v", err)
	}

	result, err := env.retractionService().Retract(context.Background(), "feed_b.xlsx")
	if err != nil {
		t.Fatalf("retract feed_b failed: %v", err)
	}
	if result.ItemsDeleted != 1 || result.ItemsUpdated != 1 {
		t.Fatalf("unexpected item counts: deleted=%d updated=%d", result.ItemsDeleted, result.ItemsUpdated)
	}
	if result.StylesDeleted != 1 || result.StylesUpdated != 1 {
		t.Fatalf("unexpected summary counts: deleted=%d updated=%d", result.StylesDeleted, result.StylesUpdated)
	}

	// 只被 feed_b 支撑的单品与款式消失
	if item, err := env.items.GetByID("000204_RED", false); err != nil || item != nil {
		t.Fatalf("expected 000204_RED removed, got %v (err %v)", item, err)
	}
	if summary, err := env.summaries.GetByStyle("000204"); err != nil || summary != nil {
		t.Fatalf("expected summary 000204 removed, got %v (err %v)", summary, err)
	}

	// 共享单品只移除来源
	kept := mustGetItem(t, env, "010045_WHT")
	if !reflect.DeepEqual([]string(kept.SourceFiles), []string{"feed_a.xlsx"}) {
		t.Fatalf("expected feed_a-only provenance, got %v", kept.SourceFiles)
	}

	summary, err := env.summaries.GetByStyle("010045")
	if err != nil || summary == nil {
		t.Fatalf("summary lookup failed: %v", err)
	}
	if !reflect.DeepEqual([]string(summary.AllColors), []string{"BLK", "WHT"}) || summary.ColorCount != 2 {
		t.Fatalf("expected recomputed colors [BLK WHT], got %v (count %d)", summary.AllColors, summary.ColorCount)
	}
	if !reflect.DeepEqual([]string(summary.SourceFiles), []string{"feed_a.xlsx"}) {
		t.Fatalf("expected summary provenance [feed_a.xlsx], got %v", summary.SourceFiles)
	}

	if upload, err := env.uploads.GetByFilename("feed_b.xlsx"); err != nil || upload != nil {
		t.Fatalf("expected feed_b upload record removed, got %v (err %v)", upload, err)
	}
}

func TestRetractUnknownSnapshotReturnsNotFound(t *testing.T) {
	env := setupServiceTest(t)
	if _, err := env.retractionService().Retract(context.Background(), "ghost.xlsx"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummaryTracksDistinctItemColors(t *testing.T) {
	env := setupServiceTest(t)
	svc := env.ingestService()
	pathA := writeSnapshot(t, "feed_a.xlsx", [][]string{
		{"10045", "BLK", "Lifestyle", "Rubber", "M"},
		{"10045ww", "BLK", "Lifestyle", "Rubber", "M"},
	})
	pathB := writeSnapshot(t, "feed_b.xlsx", [][]string{
		{"10045", "WHT", "Lifestyle", "Rubber", "M"},
	})
	if _, err := svc.Ingest(context.Background(), pathA, "feed_a.xlsx", IngestOptions{}); err != nil {
		t.Fatalf("ingest feed_a failed: %v", err)
	}
	if _, err := svc.Ingest(context.Background(), pathB, "feed_b.xlsx", IngestOptions{}); err != nil {
		t.Fatalf("ingest feed_b failed: %v", err)
	}

	summary, err := env.summaries.GetByStyle("010045")
	if err != nil || summary == nil {
		t.Fatalf("summary lookup failed: %v", err)
	}
	colors, err := env.items.DistinctColorsByStyle("010045")
	if err != nil {
		t.Fatalf("distinct colors failed: %v", err)
	}
	if !reflect.DeepEqual([]string(summary.AllColors), colors) {
		t.Fatalf("summary colors %v diverge from item colors %v", summary.AllColors, colors)
	}
	if summary.ColorCount != len(colors) {
		t.Fatalf("color count %d diverges from %d distinct colors", summary.ColorCount, len(colors))
	}
	// 宽版共享基码但颜色标注不同
	if !reflect.DeepEqual(colors, []string{"BLK", "BLK (ww)", "WHT"}) {
		t.Fatalf("unexpected distinct colors: %v", colors)
	}
}
