package service

import "errors"

// 业务层通用错误
var (
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("resource not found")
	// ErrNameExists 名称已被占用
	ErrNameExists = errors.New("name already exists")
	// ErrInvalidStatus 非法的单品状态
	ErrInvalidStatus = errors.New("invalid item status")
	// ErrInvalidAction 非法的操作类型
	ErrInvalidAction = errors.New("invalid action type")
	// ErrSnapshotProcessing 快照正在导入中
	ErrSnapshotProcessing = errors.New("snapshot is still processing")
	// ErrSourceFileMismatch 快照不在单品的来源集合内
	ErrSourceFileMismatch = errors.New("source file not associated with item")
)
