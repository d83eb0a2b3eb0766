// Package storage 组装元数据缓存使用的内存层与磁盘层
package storage

import (
	"context"
	"fmt"

	sdkconfig "github.com/weisyn/prophet-sdk/internal/config/sdk"
	"github.com/weisyn/prophet-sdk/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/prophet-sdk/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *sdkconfig.Config
	Logger    log.Logger
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	MemoryStore storageInterface.MemoryStore
	BadgerStore storageInterface.BadgerStore // 未配置 disk_dir 时为 nil
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建缓存并注册关闭钩子
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	mem, disk, err := Open(params.Config, params.Logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if disk != nil {
				// 后台例程不能绑定到启动上下文
				disk.StartMaintenanceRoutines(context.Background())
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("正在关闭元数据缓存...")
			if err := mem.Close(); err != nil {
				params.Logger.Errorf("关闭内存缓存失败: %v", err)
			}
			if disk != nil {
				if err := disk.Close(); err != nil {
					return fmt.Errorf("关闭磁盘缓存失败: %w", err)
				}
			}
			return nil
		},
	})

	out := ModuleOutput{MemoryStore: mem}
	if disk != nil {
		out.BadgerStore = disk
	}
	return out, nil
}

// Open 按配置创建内存缓存与可选的磁盘缓存
func Open(cfg *sdkconfig.Config, logger log.Logger) (*memory.Store, *badger.Store, error) {
	mem, err := memory.New(memory.Options{
		LifeWindow:   cfg.GetCacheLifeWindow(),
		MaxEntrySize: cfg.Cache.MaxEntrySize,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("创建内存缓存失败: %w", err)
	}
	if cfg.Cache.DiskDir == "" {
		return mem, nil, nil
	}

	disk, err := badger.New(cfg.Cache.DiskDir, logger)
	if err != nil {
		_ = mem.Close()
		return nil, nil, fmt.Errorf("创建磁盘缓存失败: %w", err)
	}
	return mem, disk, nil
}
