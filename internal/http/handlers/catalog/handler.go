package catalog

import "github.com/stockbook/internal/provider"

// Handler 读取侧接口处理器：扫描、检索、统计与报表
type Handler struct {
	*provider.Container
}

// New 创建读取侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
