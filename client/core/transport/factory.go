package transport

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// ClientConfig 传输配置
type ClientConfig struct {
	// 节点端点(按优先级排序)
	Endpoints []EndpointConfig `json:"endpoints"`

	// 单次调用超时
	Timeout time.Duration `json:"timeout"`

	// 固定读取高度
	BlockNumber *uint64 `json:"block_number,omitempty"`

	// 健康检查间隔，0 表示不做后台检查
	HealthCheckInterval time.Duration `json:"health_check_interval"`
}

// EndpointConfig 端点配置
type EndpointConfig struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"` // 优先级,数字越小越优先
	URL      string `json:"url"`
}

// FallbackCaller 支持故障转移的调用器
//
// 每次调用按优先级依次尝试健康端点，每个端点最多一次，不做退避重试。
// 合约回滚是确定性结果，不会触发故障转移。
type FallbackCaller struct {
	config    ClientConfig
	backends  []backendWithPriority
	mu        sync.RWMutex
	closeCh   chan struct{}
	closeOnce sync.Once
}

type backendWithPriority struct {
	name      string
	priority  int
	backend   Backend
	healthy   bool
	lastCheck time.Time
}

// NewFallbackCaller 连接所有端点并创建调用器
func NewFallbackCaller(ctx context.Context, config ClientConfig) (*FallbackCaller, error) {
	if len(config.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints configured")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	endpoints := make([]EndpointConfig, len(config.Endpoints))
	for i, ep := range config.Endpoints {
		if ep.Name == "" {
			ep.Name = fmt.Sprintf("endpoint-%d", i)
		}
		endpoints[i] = ep
	}
	config.Endpoints = endpoints

	named := make(map[string]Backend, len(config.Endpoints))
	for _, ep := range config.Endpoints {
		if ep.URL == "" {
			continue // 跳过无效端点
		}
		b, err := DialEthCaller(ctx, ep.URL, config.BlockNumber, config.Timeout)
		if err != nil {
			for _, opened := range named {
				opened.Close()
			}
			return nil, err
		}
		named[ep.Name] = b
	}
	if len(named) == 0 {
		return nil, fmt.Errorf("no valid endpoints")
	}
	return NewFallbackCallerWithBackends(config, named), nil
}

// NewFallbackCallerWithBackends 使用已建立的端点创建调用器
// backends 以 EndpointConfig.Name 为键
func NewFallbackCallerWithBackends(config ClientConfig, backends map[string]Backend) *FallbackCaller {
	fc := &FallbackCaller{
		config:  config,
		closeCh: make(chan struct{}),
	}
	for _, ep := range config.Endpoints {
		b, ok := backends[ep.Name]
		if !ok {
			continue
		}
		fc.backends = append(fc.backends, backendWithPriority{
			name:     ep.Name,
			priority: ep.Priority,
			backend:  b,
			healthy:  true, // 初始假设健康
		})
	}

	sort.SliceStable(fc.backends, func(i, j int) bool {
		return fc.backends[i].priority < fc.backends[j].priority
	})

	if config.HealthCheckInterval > 0 {
		go fc.healthCheckLoop()
	}
	return fc
}

// EndpointsFromURLs 将有序 URL 列表转换为端点配置
func EndpointsFromURLs(urls []string) []EndpointConfig {
	out := make([]EndpointConfig, len(urls))
	for i, u := range urls {
		out[i] = EndpointConfig{Name: fmt.Sprintf("endpoint-%d", i), Priority: i, URL: u}
	}
	return out
}

// healthCheckLoop 健康检查循环
func (fc *FallbackCaller) healthCheckLoop() {
	ticker := time.NewTicker(fc.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fc.checkAll()
		case <-fc.closeCh:
			return
		}
	}
}

// checkAll 检查所有端点健康状态
// Ping 期间不持锁，调用方只在记录结果时等待写锁
func (fc *FallbackCaller) checkAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fc.mu.RLock()
	backends := make([]Backend, len(fc.backends))
	for i := range fc.backends {
		backends[i] = fc.backends[i].backend
	}
	fc.mu.RUnlock()

	results := make([]bool, len(backends))
	for i, b := range backends {
		results[i] = b.Ping(ctx) == nil
	}

	now := time.Now()
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for i, healthy := range results {
		fc.backends[i].healthy = healthy
		fc.backends[i].lastCheck = now
	}
}

// order 返回本次调用的尝试顺序：健康端点在前，其余按优先级附后
func (fc *FallbackCaller) order() []int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	healthy := make([]int, 0, len(fc.backends))
	var unhealthy []int
	for i, b := range fc.backends {
		if b.healthy {
			healthy = append(healthy, i)
		} else {
			unhealthy = append(unhealthy, i)
		}
	}
	return append(healthy, unhealthy...)
}

func (fc *FallbackCaller) markHealthy(i int, healthy bool) {
	fc.mu.Lock()
	fc.backends[i].healthy = healthy
	fc.backends[i].lastCheck = time.Now()
	fc.mu.Unlock()
}

// isDeterministic 判断错误是否与端点无关（回滚或调用方取消）
func isDeterministic(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return true
	}
	return errors.Is(err, context.Canceled)
}

// tryWithFallback 依次尝试端点
func (fc *FallbackCaller) tryWithFallback(ctx context.Context, op func(Backend) error) error {
	order := fc.order()
	if len(order) == 0 {
		return fmt.Errorf("no available endpoint")
	}

	var errs []error
	for _, i := range order {
		err := op(fc.backends[i].backend)
		if err == nil {
			fc.markHealthy(i, true)
			return nil
		}
		if isDeterministic(ctx, err) {
			return err
		}
		fc.markHealthy(i, false)
		errs = append(errs, fmt.Errorf("%s: %w", fc.backends[i].name, err))
	}
	return fmt.Errorf("all endpoints failed: %w", errors.Join(errs...))
}

// ===== Caller / bind.ContractCaller 实现(通过tryWithFallback降级) =====

// Call 实现 Caller
func (fc *FallbackCaller) Call(ctx context.Context, payload []byte) ([]byte, error) {
	var result []byte
	err := fc.tryWithFallback(ctx, func(b Backend) error {
		var e error
		result, e = b.Call(ctx, payload)
		return e
	})
	return result, err
}

// CodeAt 实现 bind.ContractCaller
func (fc *FallbackCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	var result []byte
	err := fc.tryWithFallback(ctx, func(b Backend) error {
		var e error
		result, e = b.CodeAt(ctx, contract, blockNumber)
		return e
	})
	return result, err
}

// CallContract 实现 bind.ContractCaller
func (fc *FallbackCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var result []byte
	err := fc.tryWithFallback(ctx, func(b Backend) error {
		var e error
		result, e = b.CallContract(ctx, call, blockNumber)
		return e
	})
	return result, err
}

// Ping 任一端点可用即成功
func (fc *FallbackCaller) Ping(ctx context.Context) error {
	return fc.tryWithFallback(ctx, func(b Backend) error {
		return b.Ping(ctx)
	})
}

// Close 停止健康检查并关闭所有端点
func (fc *FallbackCaller) Close() {
	fc.closeOnce.Do(func() {
		close(fc.closeCh)
		for _, b := range fc.backends {
			b.backend.Close()
		}
	})
}
