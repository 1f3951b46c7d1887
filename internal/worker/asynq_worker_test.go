package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockbook/internal/config"
	"github.com/stockbook/internal/provider"
	"github.com/stockbook/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleArtifactCleanupRemovesFiles(t *testing.T) {
	cfg := &config.Config{}
	cfg.Intake.ArchiveDir = t.TempDir()
	cfg.Images.Dir = t.TempDir()

	archive := filepath.Join(cfg.Intake.ArchiveDir, "feed_a.xlsx")
	if err := os.WriteFile(archive, []byte("snapshot"), 0o644); err != nil {
		t.Fatalf("write archive fixture failed: %v", err)
	}
	image := filepath.Join(cfg.Images.Dir, "010045_BLK.jpg")
	if err := os.WriteFile(image, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write image fixture failed: %v", err)
	}

	payload, err := json.Marshal(queue.ArtifactCleanupPayload{
		Filename:   "feed_a.xlsx",
		ImageFiles: []string{"010045_BLK.jpg"},
	})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}

	consumer := NewConsumer(&provider.Container{Config: cfg})
	task := asynq.NewTask(queue.TaskArtifactCleanup, payload)
	if err := consumer.handleArtifactCleanup(context.Background(), task); err != nil {
		t.Fatalf("artifact cleanup failed: %v", err)
	}

	if _, err := os.Stat(archive); !os.IsNotExist(err) {
		t.Fatalf("expected archive removed, stat err %v", err)
	}
	if _, err := os.Stat(image); !os.IsNotExist(err) {
		t.Fatalf("expected image removed, stat err %v", err)
	}
}

func TestHandleArtifactCleanupBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{Config: &config.Config{}})
	task := asynq.NewTask(queue.TaskArtifactCleanup, []byte("{not json"))
	if err := consumer.handleArtifactCleanup(context.Background(), task); err == nil {
		t.Fatal("expected unmarshal error for malformed payload")
	}
}
