// Package kvstore 提供持久化键值存储抽象与Redis实现。
// 购物车与分类等跨会话数据通过该抽象落盘；值以JSON编码保存。
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrKeyNotFound 表示键不存在（或已过期）
var ErrKeyNotFound = errors.New("key not found")

// Store 定义键值存储操作接口。
// expiration 为 0 表示永不过期，用于跨会话持久化的分区。
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// MemoryStore 内存实现（用于开发和测试，不跨进程持久化）
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]*memoryItem
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time // 零值表示永不过期
}

// NewMemoryStore 创建内存存储实例
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*memoryItem),
	}
}

// expired 判断条目是否已过期
func (it *memoryItem) expired() bool {
	return !it.expiresAt.IsZero() && time.Now().After(it.expiresAt)
}

// Get 获取键值并反序列化到 dest
func (m *MemoryStore) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, exists := m.data[key]
	if !exists {
		return ErrKeyNotFound
	}
	if item.expired() {
		delete(m.data, key)
		return ErrKeyNotFound
	}
	return json.Unmarshal(item.value, dest)
}

// Set 设置键值；expiration 为 0 表示永不过期
func (m *MemoryStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	item := &memoryItem{value: data}
	if expiration > 0 {
		item.expiresAt = time.Now().Add(expiration)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = item
	return nil
}

// Del 删除键
func (m *MemoryStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// Exists 检查键是否存在
func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, exists := m.data[key]
	if !exists {
		return false, nil
	}
	if item.expired() {
		delete(m.data, key)
		return false, nil
	}
	return true, nil
}

// SetNX 仅当键不存在时设置
func (m *MemoryStore) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	exists, err := m.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	return true, m.Set(ctx, key, value, expiration)
}

// Ping 检查连接
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close 关闭存储并清空数据
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]*memoryItem)
	return nil
}

// NullStore 空实现（禁用持久化时使用）：写入被丢弃，读取永远未命中
type NullStore struct{}

// NewNullStore 创建空存储实例
func NewNullStore() *NullStore {
	return &NullStore{}
}

func (n *NullStore) Get(ctx context.Context, key string, dest interface{}) error {
	return ErrKeyNotFound
}

func (n *NullStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (n *NullStore) Del(ctx context.Context, keys ...string) error {
	return nil
}

func (n *NullStore) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (n *NullStore) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return true, nil
}

func (n *NullStore) Ping(ctx context.Context) error {
	return nil
}

func (n *NullStore) Close() error {
	return nil
}
