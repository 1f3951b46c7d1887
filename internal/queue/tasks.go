package queue

import (
	"encoding/json"

	"github.com/stockbook/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskArtifactCleanup 快照产物清理任务
	TaskArtifactCleanup = constants.TaskArtifactCleanup
	// TaskSummaryRecount 款式汇总重算任务
	TaskSummaryRecount = constants.TaskSummaryRecount
)

// ArtifactCleanupPayload 快照产物清理任务载荷
type ArtifactCleanupPayload struct {
	Filename   string   `json:"filename"`    // 归档的快照文件名
	ImageFiles []string `json:"image_files"` // 本快照独占的图片文件名
}

// SummaryRecountPayload 款式汇总重算任务载荷，Styles 为空表示全量重算
type SummaryRecountPayload struct {
	Styles []string `json:"styles"`
}

// NewArtifactCleanupTask 创建快照产物清理任务
func NewArtifactCleanupTask(payload ArtifactCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskArtifactCleanup, body), nil
}

// NewSummaryRecountTask 创建款式汇总重算任务
func NewSummaryRecountTask(payload SummaryRecountPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSummaryRecount, body), nil
}
