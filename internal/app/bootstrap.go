package app

import (
	"context"
	"fmt"
	"time"

	"github.com/weisyn/prophet-sdk/client"
	"github.com/weisyn/prophet-sdk/internal/api"
	sdkconfig "github.com/weisyn/prophet-sdk/internal/config/sdk"
	logimpl "github.com/weisyn/prophet-sdk/internal/core/infrastructure/log"
	"github.com/weisyn/prophet-sdk/internal/core/infrastructure/metrics"
	"github.com/weisyn/prophet-sdk/internal/core/infrastructure/storage"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// 启动与停止的超时
const (
	startTimeout = 30 * time.Second
	stopTimeout  = 30 * time.Second
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts   *options
	config *sdkconfig.Config
	fxApp  *fx.App
	client *client.Client // 启动后设置
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options, cfg *sdkconfig.Config) *Bootstrap {
	return &Bootstrap{
		opts:   opts,
		config: cfg,
	}
}

// ClientParams 客户端依赖
type ClientParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *sdkconfig.Config
	Logger    log.Logger
	Metrics   *metrics.Metrics
	Memory    storageInterface.MemoryStore
	Disk      storageInterface.BadgerStore `optional:"true"`
}

// provideClient 创建客户端并在停止时关闭
func (b *Bootstrap) provideClient(p ClientParams) (*client.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	c, err := client.New(ctx, p.Config, client.Options{
		Logger:        p.Logger,
		Metrics:       p.Metrics,
		Memory:        p.Memory,
		Disk:          p.Disk,
		Backend:       b.opts.backend,
		SkipTemplates: b.opts.skipTemplates,
	})
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			c.Close()
			return nil
		},
	})
	return c, nil
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Supply(b.config), // 1. 配置(不依赖其他)
		logimpl.Module(),    // 2. 日志(依赖配置)
		metrics.Module(),    // 3. 指标
		storage.Module(),    // 4. 元数据缓存(依赖配置和日志)
	}
}

// SetupBusinessLayer 设置业务逻辑层模块
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(b.provideClient),
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	modules := []fx.Option{
		fx.Invoke(func(c *client.Client) { b.client = c }),
	}
	if b.opts.enableAPI {
		modules = append(modules, api.Module())
	}
	return modules
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() []fx.Option {
	var allModules []fx.Option
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupBusinessLayer()...)
	allModules = append(allModules, b.SetupApplicationLayer()...)
	return allModules
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp(extra ...fx.Option) error {
	appOptions := []fx.Option{
		fx.Options(b.SetupModules()...),
		fx.Options(extra...),
		// 禁用fx内部日志
		fx.NopLogger,
	}

	b.fxApp = fx.New(appOptions...)
	if err := b.fxApp.Err(); err != nil {
		return fmt.Errorf("装配模块失败: %w", err)
	}
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// BootstrapApp 执行完整的引导过程并返回应用实例
func BootstrapApp(options ...Option) (App, error) {
	opts := newOptions(options...)
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}

	bootstrap := NewBootstrap(opts, cfg)
	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), startTimeout)
	defer startupCancel()
	if err := bootstrap.StartApp(startupCtx); err != nil {
		return nil, err
	}

	return &internalApp{bootstrap: bootstrap}, nil
}
