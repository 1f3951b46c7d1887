package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/stockbook/internal/constants"
	"github.com/stockbook/internal/models"
	"github.com/stockbook/internal/repository"
	"github.com/stockbook/internal/sheet"
)

func (env *serviceTestEnv) catalogService() *CatalogService {
	return NewCatalogService(env.items, env.summaries, env.actions, env.uploads, env.locations)
}

func TestScanStylePadsRawInput(t *testing.T) {
	env := setupServiceTest(t)
	seedItem(t, env, "010045_BLK", "010045", "BLK", constants.ItemStatusPending, nil)
	err := env.summaries.Create(&models.StyleSummary{
		Style:       "010045",
		AllColors:   models.StringArray{"BLK"},
		SourceFiles: models.StringArray{"feed_a.xlsx"},
		ColorCount:  1,
	})
	if err != nil {
		t.Fatalf("seed summary failed: %v", err)
	}

	result, err := env.catalogService().ScanStyle(context.Background(), "10045ww")
	if err != nil {
		t.Fatalf("scan style failed: %v", err)
	}
	if result.Summary.Style != "010045" {
		t.Fatalf("expected padded style lookup, got %q", result.Summary.Style)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "010045_BLK" {
		t.Fatalf("unexpected scan items: %v", result.Items)
	}

	if _, err := env.catalogService().ScanStyle(context.Background(), "999999"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown style, got %v", err)
	}
}

func TestUpdateItemStatusValidatesAndRecordsAction(t *testing.T) {
	env := setupServiceTest(t)
	seedItem(t, env, "010045_BLK", "010045", "BLK", constants.ItemStatusPending, nil)
	svc := env.catalogService()

	if _, err := svc.UpdateItemStatus(context.Background(), "010045_BLK", "vaporized", "amy", ""); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateItemStatus(context.Background(), "ghost", constants.ItemStatusPlaced, "amy", ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	item, err := svc.UpdateItemStatus(context.Background(), "010045_BLK", constants.ItemStatusShowroom, "amy", "front window")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if item.Status != constants.ItemStatusShowroom {
		t.Fatalf("expected showroom status, got %q", item.Status)
	}

	actions, total, err := env.actions.List(repository.InventoryActionListFilter{Style: "010045"})
	if err != nil {
		t.Fatalf("list actions failed: %v", err)
	}
	if total != 1 || actions[0].Action != constants.ActionTypeAdjust || actions[0].Operator != "amy" {
		t.Fatalf("expected one adjust action by amy, got %v", actions)
	}
}

func TestUpdateItemLocationVerifiesRow(t *testing.T) {
	env := setupServiceTest(t)
	seedItem(t, env, "010045_BLK", "010045", "BLK", constants.ItemStatusPending, nil)
	rowID := seedRow(t, env, "Room A", "Shelf 1", "Row 1")
	svc := env.catalogService()

	missing := rowID + 100
	if _, err := svc.UpdateItemLocation(context.Background(), "010045_BLK", &missing, "amy"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing row, got %v", err)
	}

	item, err := svc.UpdateItemLocation(context.Background(), "010045_BLK", &rowID, "amy")
	if err != nil {
		t.Fatalf("update location failed: %v", err)
	}
	if item.RowID == nil || *item.RowID != rowID {
		t.Fatalf("expected row %d assigned, got %v", rowID, item.RowID)
	}
	if item.Row == nil || item.Row.Name != "Row 1" {
		t.Fatalf("expected row preloaded, got %v", item.Row)
	}

	actions, _, err := env.actions.List(repository.InventoryActionListFilter{Action: constants.ActionTypeMove})
	if err != nil || len(actions) != 1 {
		t.Fatalf("expected one move action, got %v (err %v)", actions, err)
	}
	if actions[0].Location != "Room A / Shelf 1 / Row 1" {
		t.Fatalf("expected rendered shelf path, got %q", actions[0].Location)
	}
}

func TestStatsCoversEveryStatus(t *testing.T) {
	env := setupServiceTest(t)
	seedItem(t, env, "010045_BLK", "010045", "BLK", constants.ItemStatusPending, nil)
	seedItem(t, env, "010045_WHT", "010045", "WHT", constants.ItemStatusDropped, nil)
	seedItem(t, env, "010045_BLK (ww)", "010045", "BLK (ww)", constants.ItemStatusPending, nil)

	stats, err := env.catalogService().Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalItems != 3 {
		t.Fatalf("expected 3 items counted, got %d", stats.TotalItems)
	}
	for _, status := range constants.ItemStatuses {
		if _, ok := stats.StatusCounts[status]; !ok {
			t.Fatalf("status %q missing from stats", status)
		}
	}
	if stats.StatusCounts[constants.ItemStatusPending] != 2 || stats.StatusCounts[constants.ItemStatusDropped] != 1 {
		t.Fatalf("unexpected status counts: %v", stats.StatusCounts)
	}
	if stats.StatusCounts[constants.ItemStatusPlaced] != 0 {
		t.Fatalf("expected zero placed items, got %d", stats.StatusCounts[constants.ItemStatusPlaced])
	}
	if stats.DivisionCounts["N/A"] != 3 {
		t.Fatalf("unexpected division counts: %v", stats.DivisionCounts)
	}
	if stats.WidthCounts[sheet.WidthClassRegular] != 2 || stats.WidthCounts[sheet.WidthClassExtraWide] != 1 {
		t.Fatalf("unexpected width counts: %v", stats.WidthCounts)
	}
}

func TestRecountSummariesRebuildsAndPrunes(t *testing.T) {
	env := setupServiceTest(t)
	seedItem(t, env, "010045_BLK", "010045", "BLK", constants.ItemStatusPending, nil)
	seedItem(t, env, "010045_WHT", "010045", "WHT", constants.ItemStatusPending, nil)
	// 汇总与单品表脱节：颜色缺失、并多出一个无单品支撑的款式
	mustCreateSummary := func(summary *models.StyleSummary) {
		if err := env.summaries.Create(summary); err != nil {
			t.Fatalf("seed summary failed: %v", err)
		}
	}
	mustCreateSummary(&models.StyleSummary{
		Style:       "010045",
		AllColors:   models.StringArray{"BLK"},
		SourceFiles: models.StringArray{"stale.xlsx"},
		ColorCount:  1,
	})
	mustCreateSummary(&models.StyleSummary{
		Style:       "000999",
		AllColors:   models.StringArray{"GRN"},
		SourceFiles: models.StringArray{"stale.xlsx"},
		ColorCount:  1,
	})

	touched, err := env.catalogService().RecountSummaries(context.Background(), nil)
	if err != nil {
		t.Fatalf("recount failed: %v", err)
	}
	if touched != 2 {
		t.Fatalf("expected 2 summaries touched, got %d", touched)
	}

	summary, err := env.summaries.GetByStyle("010045")
	if err != nil || summary == nil {
		t.Fatalf("summary lookup failed: %v", err)
	}
	if !reflect.DeepEqual([]string(summary.AllColors), []string{"BLK", "WHT"}) || summary.ColorCount != 2 {
		t.Fatalf("expected rebuilt colors [BLK WHT], got %v (count %d)", summary.AllColors, summary.ColorCount)
	}
	if !reflect.DeepEqual([]string(summary.SourceFiles), []string{"feed_a.xlsx"}) {
		t.Fatalf("expected provenance rebuilt from items, got %v", summary.SourceFiles)
	}

	if orphan, err := env.summaries.GetByStyle("000999"); err != nil || orphan != nil {
		t.Fatalf("expected orphan summary pruned, got %v (err %v)", orphan, err)
	}
}
