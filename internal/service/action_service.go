package service

import (
	"context"

	"github.com/stockbook/internal/constants"
	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/models"
	"github.com/stockbook/internal/repository"
)

// ActionService 库存操作流水服务
type ActionService struct {
	items   repository.ItemRepository
	actions repository.InventoryActionRepository
}

// NewActionService 创建操作流水服务
func NewActionService(items repository.ItemRepository, actions repository.InventoryActionRepository) *ActionService {
	return &ActionService{items: items, actions: actions}
}

// RecordActionInput 记录操作的入参
type RecordActionInput struct {
	ItemID     string `json:"item_id" binding:"required"`
	Action     string `json:"action" binding:"required"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
	Operator   string `json:"operator"`
	SourceFile string `json:"source_file"`
}

// Record 写入一条操作流水。
// 操作类型不合法返回 ErrInvalidAction，单品不存在返回 ErrNotFound。
// 指定的快照必须在单品来源集合内，缺省取集合首个快照，撤回时据此级联删除。
func (s *ActionService) Record(ctx context.Context, input RecordActionInput) (*models.InventoryAction, error) {
	if !validActionType(input.Action) {
		return nil, ErrInvalidAction
	}
	item, err := s.items.GetByID(input.ItemID, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if input.SourceFile != "" && !item.SourceFiles.Contains(input.SourceFile) {
		return nil, ErrSourceFileMismatch
	}
	action := &models.InventoryAction{
		ItemID:     item.ID,
		Style:      item.Style,
		Color:      item.Color,
		Action:     input.Action,
		Location:   input.Location,
		Notes:      input.Notes,
		Operator:   input.Operator,
		SourceFile: defaultActionSource(input.SourceFile, item),
	}
	if err := s.actions.Create(action); err != nil {
		return nil, err
	}
	logger.Infow("inventory_action_recorded",
		"item_id", item.ID,
		"action", input.Action,
		"operator", input.Operator,
	)
	return action, nil
}

// List 操作流水列表
func (s *ActionService) List(ctx context.Context, filter repository.InventoryActionListFilter) ([]models.InventoryAction, int64, error) {
	return s.actions.List(filter)
}

// defaultActionSource 操作流水的归属快照，未指定时取来源集合首个
func defaultActionSource(sourceFile string, item *models.Item) string {
	if sourceFile != "" {
		return sourceFile
	}
	if len(item.SourceFiles) > 0 {
		return item.SourceFiles[0]
	}
	return ""
}

func validActionType(action string) bool {
	for _, a := range constants.ActionTypes {
		if a == action {
			return true
		}
	}
	return false
}
