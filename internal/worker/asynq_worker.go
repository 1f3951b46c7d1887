package worker

import (
	"context"
	"encoding/json"

	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/provider"
	"github.com/stockbook/internal/queue"
	"github.com/stockbook/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskArtifactCleanup, c.handleArtifactCleanup)
	mux.HandleFunc(queue.TaskSummaryRecount, c.handleSummaryRecount)
}

func (c *Consumer) handleArtifactCleanup(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_artifact_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ArtifactCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_artifact_cleanup_unmarshal_failed", "error", err)
		return err
	}
	if payload.Filename == "" && len(payload.ImageFiles) == 0 {
		logger.Debugw("worker_artifact_cleanup_skip_empty_payload")
		return nil
	}
	service.CleanupArtifacts(c.Config, payload)
	return nil
}

func (c *Consumer) handleSummaryRecount(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_summary_recount_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SummaryRecountPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_summary_recount_unmarshal_failed", "error", err)
		return err
	}
	if c.CatalogService == nil {
		logger.Warnw("worker_summary_recount_skip_catalog_service_nil")
		return nil
	}
	touched, err := c.CatalogService.RecountSummaries(ctx, payload.Styles)
	if err != nil {
		logger.Warnw("worker_summary_recount_failed", "styles", len(payload.Styles), "error", err)
		return err
	}
	logger.Debugw("worker_summary_recount_done", "styles", len(payload.Styles), "touched", touched)
	return nil
}
