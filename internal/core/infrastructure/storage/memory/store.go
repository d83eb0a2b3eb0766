// Package memory 提供基于BigCache的内存缓存实现
package memory

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	logimpl "github.com/weisyn/prophet-sdk/internal/core/infrastructure/log"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/storage"
)

// 条目头部：8 字节过期时间（UnixNano，0 表示不过期）
const headerSize = 8

// Options 内存缓存参数
type Options struct {
	LifeWindow   time.Duration // 全局条目生命周期
	CleanWindow  time.Duration // 过期清理间隔
	MaxEntrySize int           // 单条目最大字节数（用于预分配）
	Shards       int           // 分片数，必须是 2 的幂
}

// Store 实现了MemoryStore接口，基于BigCache提供内存缓存功能
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	mutex  sync.RWMutex
	closed bool
	now    func() time.Time
}

var _ storage.MemoryStore = (*Store)(nil)

// New 创建一个新的BigCache内存存储实例
func New(opts Options, logger log.Logger) (*Store, error) {
	logger = logimpl.NewModuleLogger(logger, "memory-cache")

	if opts.LifeWindow <= 0 {
		opts.LifeWindow = 30 * time.Minute
	}
	if opts.CleanWindow <= 0 {
		opts.CleanWindow = 5 * time.Minute
	}
	if opts.Shards <= 0 {
		opts.Shards = 64
	}

	cfg := bigcache.DefaultConfig(opts.LifeWindow)
	cfg.CleanWindow = opts.CleanWindow
	cfg.Shards = opts.Shards
	if opts.MaxEntrySize > 0 {
		cfg.MaxEntrySize = opts.MaxEntrySize
	}
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}

	return &Store{
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Close 关闭缓存并释放资源
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	err := s.cache.Close()
	if err == nil {
		s.closed = true
	}
	return err
}

// Get 获取缓存值
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return nil, false, fmt.Errorf("memory store is closed")
	}

	entry, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, false, nil
		}
		s.logger.Warnf("获取缓存键[%s]失败: %v", key, err)
		return nil, false, err
	}
	if len(entry) < headerSize {
		_ = s.cache.Delete(key)
		return nil, false, nil
	}

	expiresAt := int64(binary.LittleEndian.Uint64(entry[:headerSize]))
	if expiresAt != 0 && s.now().UnixNano() >= expiresAt {
		_ = s.cache.Delete(key)
		return nil, false, nil
	}

	value := make([]byte, len(entry)-headerSize)
	copy(value, entry[headerSize:])
	return value, true, nil
}

// Set 设置缓存值，可指定过期时间
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return fmt.Errorf("memory store is closed")
	}

	entry := make([]byte, headerSize+len(value))
	if ttl > 0 {
		binary.LittleEndian.PutUint64(entry[:headerSize], uint64(s.now().Add(ttl).UnixNano()))
	}
	copy(entry[headerSize:], value)

	if err := s.cache.Set(key, entry); err != nil {
		s.logger.Warnf("设置缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Delete 删除指定键的缓存
func (s *Store) Delete(_ context.Context, key string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return fmt.Errorf("memory store is closed")
	}
	if err := s.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		s.logger.Warnf("删除缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Len 返回缓存条目数（含未清理的过期条目）
func (s *Store) Len() int {
	return s.cache.Len()
}
