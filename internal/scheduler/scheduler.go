package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/stockbook/internal/config"
	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/provider"
	"github.com/stockbook/internal/queue"

	"github.com/robfig/cron/v3"
)

const recountTimeout = 10 * time.Minute

// Service 定时任务服务，周期性触发款式汇总重算
type Service struct {
	name      string
	cron      *cron.Cron
	container *provider.Container
	cfg       *config.SchedulerConfig
}

// NewService 创建定时任务服务
func NewService(cfg *config.SchedulerConfig, container *provider.Container) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("scheduler disabled")
	}
	if container == nil {
		return nil, errors.New("container is nil")
	}
	return &Service{
		name:      "scheduler",
		cron:      cron.New(cron.WithSeconds()),
		container: container,
		cfg:       cfg,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "scheduler"
	}
	return s.name
}

// Start 启动服务。cron 表达式为 6 段（含秒），如 "0 0 4 * * *" 表示每天 04:00
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return errors.New("scheduler not initialized")
	}
	if _, err := s.cron.AddFunc(s.cfg.SummaryRecountCron, s.runSummaryRecount); err != nil {
		return err
	}
	s.cron.Start()
	logger.Infow("scheduler_started", "summary_recount_cron", s.cfg.SummaryRecountCron)
	<-ctx.Done()
	return nil
}

// Stop 停止服务，等待在途任务结束
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}

// runSummaryRecount 队列可用时入队，否则就地重算
func (s *Service) runSummaryRecount() {
	payload := queue.SummaryRecountPayload{}
	if s.container.Queue.Enabled() {
		err := s.container.Queue.EnqueueSummaryRecount(payload)
		if err == nil {
			return
		}
		logger.Warnw("summary_recount_enqueue_failed", "error", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), recountTimeout)
	defer cancel()
	if _, err := s.container.CatalogService.RecountSummaries(ctx, nil); err != nil {
		logger.Warnw("summary_recount_failed", "error", err)
	}
}
