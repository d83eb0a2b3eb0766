package http

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/weisyn/prophet-sdk/client"
	sdkconfig "github.com/weisyn/prophet-sdk/internal/config/sdk"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// ModuleParams HTTP 模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *sdkconfig.Config
	Client    *client.Client
	Logger    log.Logger
	Registry  *prometheus.Registry `optional:"true"`
}

// Module 返回 HTTP 网关模块
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(ProvideServer),
		fx.Invoke(func(*Server) {}),
	)
}

// ProvideServer 创建服务器并挂载生命周期
func ProvideServer(p ModuleParams) *Server {
	server := NewServer(Options{
		Listen:   p.Config.HTTP.Listen,
		Service:  p.Client,
		Logger:   p.Logger,
		Registry: p.Registry,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error { return server.Start() },
		OnStop:  server.Stop,
	})
	return server
}
