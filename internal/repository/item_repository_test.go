package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stockbook/internal/constants"
	"github.com/stockbook/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupItemRepositoryTest(t *testing.T) (*GormItemRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Room{}, &models.Shelf{}, &models.ShelfRow{}, &models.Item{}); err != nil {
		t.Fatalf("migrate item models failed: %v", err)
	}
	return NewItemRepository(db), db
}

func createItem(t *testing.T, repo *GormItemRepository, style, color, status string, sources ...string) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:          style + "_" + color,
		Style:       style,
		Color:       color,
		Division:    "N/A",
		Outsole:     "N/A",
		Gender:      "N/A",
		SourceFiles: models.StringArray(sources),
		Status:      status,
	}
	if err := repo.Create(item); err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	return item
}

func TestItemRepositoryListBySourceFile(t *testing.T) {
	repo, _ := setupItemRepositoryTest(t)
	createItem(t, repo, "010045", "BLK", constants.ItemStatusPending, "feed_a.xlsx", "feed_b.xlsx")
	createItem(t, repo, "010045", "WHT", constants.ItemStatusPending, "feed_b.xlsx")
	createItem(t, repo, "000204", "RED", constants.ItemStatusPending, "feed_c.xlsx")

	items, err := repo.ListBySourceFile("feed_b.xlsx")
	if err != nil {
		t.Fatalf("list by source file failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two items from feed_b, got %d", len(items))
	}
	for _, item := range items {
		if !item.SourceFiles.Contains("feed_b.xlsx") {
			t.Fatalf("item %s does not carry expected source file: %v", item.ID, item.SourceFiles)
		}
	}
}

func TestItemRepositoryListFiltersBySourceFile(t *testing.T) {
	repo, _ := setupItemRepositoryTest(t)
	createItem(t, repo, "010045", "BLK", constants.ItemStatusPending, "feed_a.xlsx")
	createItem(t, repo, "000204", "RED", constants.ItemStatusPlaced, "feed_b.xlsx")

	items, total, err := repo.List(ItemListFilter{SourceFile: "feed_a.xlsx"})
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected exactly one item, got total=%d len=%d", total, len(items))
	}
	if items[0].ID != "010045_BLK" {
		t.Fatalf("unexpected item id: %s", items[0].ID)
	}
}

func TestItemRepositoryCountByStatus(t *testing.T) {
	repo, _ := setupItemRepositoryTest(t)
	createItem(t, repo, "010045", "BLK", constants.ItemStatusPending, "feed_a.xlsx")
	createItem(t, repo, "010045", "WHT", constants.ItemStatusPlaced, "feed_a.xlsx")
	createItem(t, repo, "000204", "RED", constants.ItemStatusPlaced, "feed_a.xlsx")

	counts, err := repo.CountByStatus()
	if err != nil {
		t.Fatalf("count by status failed: %v", err)
	}
	if counts[constants.ItemStatusPending] != 1 {
		t.Fatalf("expected one pending item, got %d", counts[constants.ItemStatusPending])
	}
	if counts[constants.ItemStatusPlaced] != 2 {
		t.Fatalf("expected two placed items, got %d", counts[constants.ItemStatusPlaced])
	}
}

func TestItemRepositoryListByStyleNotIn(t *testing.T) {
	repo, _ := setupItemRepositoryTest(t)
	createItem(t, repo, "010045", "BLK", constants.ItemStatusPending, "feed_a.xlsx")
	createItem(t, repo, "000204", "RED", constants.ItemStatusPending, "feed_a.xlsx")
	createItem(t, repo, "000305", "GRN", constants.ItemStatusPending, "feed_a.xlsx")

	items, err := repo.ListByStyleNotIn([]string{"010045"}, false)
	if err != nil {
		t.Fatalf("list by style not in failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two items outside active set, got %d", len(items))
	}
	for _, item := range items {
		if item.Style == "010045" {
			t.Fatalf("active style leaked into result: %s", item.ID)
		}
	}
}

func TestItemRepositoryUpdateStatusAndLocation(t *testing.T) {
	repo, db := setupItemRepositoryTest(t)
	item := createItem(t, repo, "010045", "BLK", constants.ItemStatusPending, "feed_a.xlsx")

	room := models.Room{Name: "Main"}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("create room failed: %v", err)
	}
	shelf := models.Shelf{RoomID: room.ID, Name: "A"}
	if err := db.Create(&shelf).Error; err != nil {
		t.Fatalf("create shelf failed: %v", err)
	}
	row := models.ShelfRow{ShelfID: shelf.ID, Name: "1"}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create shelf row failed: %v", err)
	}

	now := time.Now()
	affected, err := repo.UpdateStatus(item.ID, constants.ItemStatusPlaced, now)
	if err != nil || affected != 1 {
		t.Fatalf("update status failed: affected=%d err=%v", affected, err)
	}
	affected, err = repo.UpdateLocation(item.ID, &row.ID, now)
	if err != nil || affected != 1 {
		t.Fatalf("update location failed: affected=%d err=%v", affected, err)
	}

	reloaded, err := repo.GetByID(item.ID, true)
	if err != nil {
		t.Fatalf("reload item failed: %v", err)
	}
	if reloaded == nil || reloaded.Status != constants.ItemStatusPlaced {
		t.Fatalf("expected placed status, got %+v", reloaded)
	}
	if reloaded.RowID == nil || *reloaded.RowID != row.ID {
		t.Fatalf("expected item bound to shelf row %d, got %+v", row.ID, reloaded.RowID)
	}
	if reloaded.Row == nil || reloaded.Row.Name != "1" {
		t.Fatalf("expected preloaded shelf row, got %+v", reloaded.Row)
	}
}
