package badger

import (
	"context"
	"errors"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
)

// 值日志 GC 参数
const (
	gcInterval     = 30 * time.Minute
	gcDiscardRatio = 0.5
)

// RunValueLogGC 执行一轮值日志垃圾回收，直到无可回收文件或 ctx 结束
func (s *Store) RunValueLogGC(ctx context.Context, discardRatio float64) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badgerdb.ErrNoRewrite) || errors.Is(err, badgerdb.ErrRejected) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// StartMaintenanceRoutines 启动后台 GC，Close 时自动停止
//
// 内存模式没有值日志文件，不启动任何例程。
func (s *Store) StartMaintenanceRoutines(ctx context.Context) {
	if s.db.Opts().InMemory {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel

	go func() {
		ticker := time.NewTicker(gcInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.RunValueLogGC(ctx, gcDiscardRatio); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, errClosing) {
					s.logger.Warnf("值日志GC失败: %v", err)
				}
			}
		}
	}()
}
