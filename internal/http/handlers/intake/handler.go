package intake

import "github.com/stockbook/internal/provider"

// Handler 写入侧接口处理器：快照导入、撤回、季末下架、仓位与状态维护
type Handler struct {
	*provider.Container
}

// New 创建写入侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
