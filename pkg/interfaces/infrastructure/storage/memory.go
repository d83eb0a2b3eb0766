// Package storage 定义元数据缓存使用的存储接口
//
// MemoryStore 为进程内缓存（BigCache），BadgerStore 为可选的磁盘缓存。
package storage

import (
	"context"
	"time"
)

// MemoryStore 内存键值缓存
type MemoryStore interface {
	// Get 获取缓存值，第二个返回值表示是否命中
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set 设置缓存值，ttl 为 0 表示仅受全局生命周期窗口约束
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除缓存值，键不存在时不返回错误
	Delete(ctx context.Context, key string) error

	// Close 释放资源
	Close() error
}
