// Package app 组装 prophet-sdk 的长驻进程
//
// 通过 fx 按层装配配置、日志、指标、元数据缓存、客户端与可选的 HTTP 网关，
// 供 `prophet serve` 使用。
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/weisyn/prophet-sdk/client"
	logimpl "github.com/weisyn/prophet-sdk/internal/core/infrastructure/log"
)

// App 应用的对外接口
type App interface {
	// Client 返回装配完成的客户端
	Client() *client.Client

	// Stop 停止应用
	Stop() error

	// Wait 阻塞直到收到退出信号，然后停止应用
	Wait()
}

// internalApp 应用的内部实现
type internalApp struct {
	bootstrap *Bootstrap
}

// Client 返回客户端
func (a *internalApp) Client() *client.Client {
	return a.bootstrap.client
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() {
	logger := logimpl.GetLogger()
	sig := WaitForSignal()
	logger.Infof("收到信号 %v，正在优雅退出...", sig)

	if err := a.Stop(); err != nil {
		logger.Errorf("停止应用时出错: %v", err)
	}
}

// Start 启动应用
func Start(appOptions ...Option) (App, error) {
	return BootstrapApp(appOptions...)
}

// WaitForSignal 等待退出信号
func WaitForSignal() os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	return <-signals
}
