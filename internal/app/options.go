package app

import (
	"fmt"

	"github.com/weisyn/prophet-sdk/client/core/transport"
	sdkconfig "github.com/weisyn/prophet-sdk/internal/config/sdk"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
type options struct {
	// 配置文件路径
	configFilePath string

	// .env 文件路径，为空时读取当前目录的 .env
	envFile string

	// 直接传入的配置（优先级高于configFilePath）
	config *sdkconfig.Config

	// 自定义传输，为空时按配置拨号
	backend transport.Backend

	// HTTP网关开关 (默认禁用)
	enableAPI bool

	// 不加载批量模板
	skipTemplates bool
}

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithEnvFile 设置 .env 文件路径
func WithEnvFile(envFile string) Option {
	return func(o *options) {
		o.envFile = envFile
	}
}

// WithConfig 直接使用已加载的配置
func WithConfig(cfg *sdkconfig.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithBackend 使用自定义链上读取后端
func WithBackend(backend transport.Backend) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithAPI 启用HTTP网关
func WithAPI() Option {
	return func(o *options) {
		o.enableAPI = true
	}
}

// WithoutAPI 禁用HTTP网关
func WithoutAPI() Option {
	return func(o *options) {
		o.enableAPI = false
	}
}

// WithoutTemplates 跳过批量模板加载
func WithoutTemplates() Option {
	return func(o *options) {
		o.skipTemplates = true
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	options := &options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// loadConfig 返回最终生效的配置
func (o *options) loadConfig() (*sdkconfig.Config, error) {
	if o.config != nil {
		return o.config, nil
	}
	cfg, err := sdkconfig.Load(o.configFilePath, o.envFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	return cfg, nil
}
