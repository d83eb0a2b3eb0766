// Package http 提供只读 HTTP 网关
//
// 暴露模块 Schema、请求数据编解码、批量读取与元数据查询，
// 以及 /metrics（promhttp）与健康检查。
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weisyn/prophet-sdk/internal/api/http/handlers"
	"github.com/weisyn/prophet-sdk/internal/api/http/middleware"
	logimpl "github.com/weisyn/prophet-sdk/internal/core/infrastructure/log"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/log"
)

// Server HTTP服务器
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	listen     string
	logger     log.Logger
}

// Options 服务器依赖
type Options struct {
	Listen   string
	Service  handlers.Service
	Logger   log.Logger
	Registry *prometheus.Registry // 为空时不暴露 /metrics 也不采集请求指标
}

// NewServer 创建服务器并注册路由，不开始监听
func NewServer(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard

	logger := logimpl.NewModuleLogger(opts.Logger, "http")
	zl := logger.GetZapLogger()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))
	if opts.Registry != nil {
		router.Use(middleware.NewMetrics(opts.Registry).Middleware())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}
	router.Use(middleware.ErrorHandler(zl))

	handlers.NewHealthHandler(opts.Service, zl).RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	handlers.NewModuleHandlers(opts.Service).RegisterRoutes(v1)
	handlers.NewBatchHandlers(opts.Service).RegisterRoutes(v1)
	handlers.NewMetadataHandlers(opts.Service).RegisterRoutes(v1)

	return &Server{
		router: router,
		listen: opts.Listen,
		logger: logger,
	}
}

// Handler 返回路由处理器（测试用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr 返回实际监听地址，未启动时为空
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start 开始监听并在后台提供服务
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", s.listen, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP服务器异常退出: %v", err)
		}
	}()
	s.logger.Infof("HTTP网关已启动: http://%s", ln.Addr().String())
	return nil
}

// Stop 优雅停止
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("正在停止HTTP网关...")
	return s.httpServer.Shutdown(ctx)
}
