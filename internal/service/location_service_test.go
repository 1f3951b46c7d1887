package service

import (
	"context"
	"testing"
)

func TestLocationNamesUniqueWithinParent(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewLocationService(env.locations)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "Room A")
	if err != nil {
		t.Fatalf("create room failed: %v", err)
	}
	if _, err := svc.CreateRoom(ctx, "Room A"); err != ErrNameExists {
		t.Fatalf("expected ErrNameExists for duplicate room, got %v", err)
	}

	shelf, err := svc.CreateShelf(ctx, room.ID, "Shelf 1")
	if err != nil {
		t.Fatalf("create shelf failed: %v", err)
	}
	if _, err := svc.CreateShelf(ctx, room.ID, "Shelf 1"); err != ErrNameExists {
		t.Fatalf("expected ErrNameExists for duplicate shelf, got %v", err)
	}
	if _, err := svc.CreateShelf(ctx, room.ID+100, "Shelf 1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown room, got %v", err)
	}

	// 不同房间可以复用货架名
	other, err := svc.CreateRoom(ctx, "Room B")
	if err != nil {
		t.Fatalf("create second room failed: %v", err)
	}
	if _, err := svc.CreateShelf(ctx, other.ID, "Shelf 1"); err != nil {
		t.Fatalf("same shelf name in another room must be allowed: %v", err)
	}

	if _, err := svc.CreateRow(ctx, shelf.ID, "Row 1"); err != nil {
		t.Fatalf("create row failed: %v", err)
	}
	if _, err := svc.CreateRow(ctx, shelf.ID, "Row 1"); err != ErrNameExists {
		t.Fatalf("expected ErrNameExists for duplicate row, got %v", err)
	}
}

func TestDeleteRoomCascadesAndClearsItemLocations(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewLocationService(env.locations)
	ctx := context.Background()

	rowID := seedRow(t, env, "Room A", "Shelf 1", "Row 1")
	seedItem(t, env, "010045_BLK", "010045", "BLK", "pending", &rowID)

	rooms, err := svc.Layout(ctx)
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	if len(rooms) != 1 || len(rooms[0].Shelves) != 1 || len(rooms[0].Shelves[0].Rows) != 1 {
		t.Fatalf("unexpected layout: %+v", rooms)
	}

	if err := svc.DeleteRoom(ctx, rooms[0].ID); err != nil {
		t.Fatalf("delete room failed: %v", err)
	}
	if err := svc.DeleteRoom(ctx, rooms[0].ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}

	item := mustGetItem(t, env, "010045_BLK")
	if item.RowID != nil {
		t.Fatalf("expected item location cleared, still assigned to row %d", *item.RowID)
	}

	shelves, err := svc.ListShelves(ctx, 0)
	if err != nil {
		t.Fatalf("list shelves failed: %v", err)
	}
	if len(shelves) != 0 {
		t.Fatalf("expected shelves removed with room, got %d", len(shelves))
	}
}
