// Package metrics 提供 prophet-sdk 的 Prometheus 指标
//
// 覆盖批量读取、Schema 缓存与元数据读取三类指标，
// 由 fx 在独立注册表上创建，HTTP 网关通过 promhttp 暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// ModuleOutput 指标模块输出
type ModuleOutput struct {
	fx.Out

	Registry *prometheus.Registry
	Gatherer prometheus.Gatherer
	Metrics  *Metrics
}

// Module 返回 metrics 模块的 fx.Option
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建注册表并注册进程与 Go 运行时采集器
func ProvideServices() ModuleOutput {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return ModuleOutput{
		Registry: reg,
		Gatherer: reg,
		Metrics:  New(reg),
	}
}
