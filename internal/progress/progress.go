package progress

import (
	"context"
	"sync"
	"time"

	"github.com/stockbook/internal/cache"
	"github.com/stockbook/internal/logger"
)

// State 单次导入的进度快照
type State struct {
	UploadID  string    `json:"upload_id"`
	Filename  string    `json:"filename"`
	Stage     string    `json:"stage"`
	Percent   int       `json:"percent"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	Done      bool      `json:"done"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store 进度状态的存取后端
type Store interface {
	Put(ctx context.Context, id string, state State, ttl time.Duration) error
	Get(ctx context.Context, id string) (*State, bool, error)
	Delete(ctx context.Context, id string) error
}

// RedisStore 基于共享缓存的进度存储，多实例部署时进度可被任意实例读取
type RedisStore struct{}

// NewRedisStore 创建缓存进度存储
func NewRedisStore() *RedisStore {
	return &RedisStore{}
}

func progressKey(id string) string {
	return "ingest_progress:" + id
}

// Put 写入进度状态
func (s *RedisStore) Put(ctx context.Context, id string, state State, ttl time.Duration) error {
	return cache.SetJSON(ctx, progressKey(id), state, ttl)
}

// Get 读取进度状态
func (s *RedisStore) Get(ctx context.Context, id string) (*State, bool, error) {
	var state State
	found, err := cache.GetJSON(ctx, progressKey(id), &state)
	if err != nil || !found {
		return nil, false, err
	}
	return &state, true, nil
}

// Delete 删除进度状态
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return cache.Del(ctx, progressKey(id))
}

type memoryEntry struct {
	state    State
	expireAt time.Time
}

// MemoryStore 进程内进度存储，缓存未启用时的回退实现。
// 每条记录都带过期时间，写入时顺带清理过期项，避免无限增长。
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore 创建内存进度存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Put 写入进度状态
func (s *MemoryStore) Put(_ context.Context, id string, state State, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if now.After(entry.expireAt) {
			delete(s.entries, key)
		}
	}
	s.entries[id] = memoryEntry{state: state, expireAt: now.Add(ttl)}
	return nil
}

// Get 读取进度状态
func (s *MemoryStore) Get(_ context.Context, id string) (*State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expireAt) {
		return nil, false, nil
	}
	state := entry.state
	return &state, true, nil
}

// Delete 删除进度状态
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Tracker 单次导入的进度通道，随请求创建、随完成或失败关闭
type Tracker struct {
	store    Store
	uploadID string
	filename string
	ttl      time.Duration
}

// NewTracker 创建进度通道
func NewTracker(store Store, uploadID, filename string, ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tracker{store: store, uploadID: uploadID, filename: filename, ttl: ttl}
}

// UploadID 返回本次导入的进度标识
func (t *Tracker) UploadID() string {
	return t.uploadID
}

// Stage 上报阶段进度，进度写失败不影响导入本身
func (t *Tracker) Stage(ctx context.Context, stage string, percent int, message string) {
	t.put(ctx, State{
		UploadID: t.uploadID,
		Filename: t.filename,
		Stage:    stage,
		Percent:  percent,
		Message:  message,
	})
}

// Complete 标记导入完成
func (t *Tracker) Complete(ctx context.Context, stage string, message string) {
	t.put(ctx, State{
		UploadID: t.uploadID,
		Filename: t.filename,
		Stage:    stage,
		Percent:  100,
		Message:  message,
		Done:     true,
	})
}

// Fail 标记导入失败
func (t *Tracker) Fail(ctx context.Context, stage string, err error) {
	state := State{
		UploadID: t.uploadID,
		Filename: t.filename,
		Stage:    stage,
		Percent:  100,
		Done:     true,
	}
	if err != nil {
		state.Error = err.Error()
	}
	t.put(ctx, state)
}

func (t *Tracker) put(ctx context.Context, state State) {
	if t == nil || t.store == nil {
		return
	}
	state.UpdatedAt = time.Now()
	if err := t.store.Put(ctx, t.uploadID, state, t.ttl); err != nil {
		logger.Warnw("ingest_progress_write_failed",
			"upload_id", t.uploadID,
			"stage", state.Stage,
			"error", err,
		)
	}
}
