package storage

import (
	"context"
	"time"
)

// BadgerStore 持久化键值存储
type BadgerStore interface {
	// Get 获取指定键的值，键不存在时返回 nil 值和 nil 错误
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对
	Set(ctx context.Context, key, value []byte) error

	// SetWithTTL 设置键值对并指定过期时间，ttl 为 0 表示永不过期
	SetWithTTL(ctx context.Context, key, value []byte, ttl time.Duration) error

	// Delete 删除指定键
	Delete(ctx context.Context, key []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	// Close 关闭数据库
	Close() error
}
