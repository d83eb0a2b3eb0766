// Package client 提供 prophet-sdk 的统一入口
//
// Client 组合模块注册表、通用编解码、批量读取与元数据服务，
// 供 CLI、HTTP 网关以及第三方程序直接使用。
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/prophet-sdk/client/core/transport"
	sdkconfig "github.com/weisyn/prophet-sdk/internal/config/sdk"
	"github.com/weisyn/prophet-sdk/internal/core/batch"
	logimpl "github.com/weisyn/prophet-sdk/internal/core/infrastructure/log"
	"github.com/weisyn/prophet-sdk/internal/core/infrastructure/metrics"
	"github.com/weisyn/prophet-sdk/internal/core/metadata"
	"github.com/weisyn/prophet-sdk/internal/core/modules"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// 可选组件未配置时返回的错误
var (
	ErrBatchUnavailable   = errors.New("batch templates not loaded")
	ErrPinningUnavailable = errors.New("pinning service not configured")
)

// Options 客户端可选依赖
type Options struct {
	Logger  log.Logger
	Metrics *metrics.Metrics

	// 元数据缓存，均可为空
	Memory storage.MemoryStore
	Disk   storage.BadgerStore

	// Backend 自定义传输，为空时按配置拨号
	Backend transport.Backend

	// Pinner 自定义固定服务，为空时按 Pinata 配置创建
	Pinner metadata.Pinner

	// SkipTemplates 不加载批量模板（只使用 Schema 与编解码时）
	SkipTemplates bool
}

// Client prophet-sdk 客户端
type Client struct {
	config      *sdkconfig.Config
	backend     transport.Backend
	ownsBackend bool

	registry  *modules.Registry
	retriever *batch.Retriever
	fetcher   *metadata.GatewayFetcher
	metadata  *metadata.Service
	publisher *metadata.Publisher

	logger log.Logger

	// 串行化 AddModule 的读改写
	mu sync.Mutex
}

// New 根据配置创建客户端
func New(ctx context.Context, cfg *sdkconfig.Config, opts Options) (*Client, error) {
	if cfg == nil {
		cfg = sdkconfig.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := logimpl.NewModuleLogger(opts.Logger, "client")

	c := &Client{config: cfg, backend: opts.Backend, logger: logger}
	if c.backend == nil {
		fc, err := transport.NewFallbackCaller(ctx, transport.ClientConfig{
			Endpoints:   transport.EndpointsFromURLs(cfg.RPCEndpoints),
			Timeout:     cfg.GetRequestTimeout(),
			BlockNumber: cfg.BlockNumber,
		})
		if err != nil {
			return nil, fmt.Errorf("connect rpc: %w", err)
		}
		c.backend = fc
		c.ownsBackend = true
	}

	known, err := modules.LoadModules(cfg.Modules, c.backend)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.registry = modules.NewRegistry(known, opts.Logger, opts.Metrics)

	if !opts.SkipTemplates {
		templates, err := batch.LoadTemplates(cfg.Templates.Dir, cfg.Templates.Version)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.retriever = batch.NewRetriever(c.backend, templates, cfg.Registry(), opts.Logger, opts.Metrics)
	}

	c.fetcher, err = metadata.NewGatewayFetcher(metadata.GatewayOptions{
		Gateways: cfg.IPFS.Gateways,
		Timeout:  cfg.GetIPFSTimeout(),
		Memory:   opts.Memory,
		Disk:     opts.Disk,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	c.metadata = metadata.NewService(c.fetcher)

	pinner := opts.Pinner
	if pinner == nil && cfg.IPFS.PinataAPIKey != "" {
		pinner, err = metadata.NewPinataPinner(cfg.IPFS.PinataEndpoint, cfg.IPFS.PinataAPIKey, cfg.IPFS.PinataSecretAPIKey, cfg.GetIPFSTimeout())
		if err != nil {
			c.Close()
			return nil, err
		}
	}
	if pinner != nil {
		c.publisher = metadata.NewPublisher(c.registry, pinner, opts.Logger)
	}

	logger.Infof("客户端已就绪: modules=%d batch=%v pinning=%v", len(known), c.retriever != nil, c.publisher != nil)
	return c, nil
}

// Close 释放自建的传输连接
func (c *Client) Close() {
	if c.ownsBackend && c.backend != nil {
		c.backend.Close()
	}
}

// Config 返回客户端配置
func (c *Client) Config() *sdkconfig.Config { return c.config }

// Registry 返回模块注册表
func (c *Client) Registry() *modules.Registry { return c.registry }

// Metadata 返回元数据服务
func (c *Client) Metadata() *metadata.Service { return c.metadata }

// Ping 检查节点连通性
func (c *Client) Ping(ctx context.Context) error { return c.backend.Ping(ctx) }

// ===== 模块与 Schema =====

// SetKnownModules 整体替换已知模块集合
func (c *Client) SetKnownModules(m map[common.Address]*modules.Module) {
	c.registry.SetKnownModules(m)
}

// AddModule 以 ABI JSON 注册模块，保留其他已知模块
func (c *Client) AddModule(address common.Address, abiJSON []byte) error {
	m, err := modules.NewModule(address, abiJSON, c.backend)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := make(map[common.Address]*modules.Module)
	for _, addr := range c.registry.KnownModules() {
		existing, err := c.registry.GetModule(addr)
		if err == nil {
			next[addr] = existing
		}
	}
	next[address] = m
	c.registry.SetKnownModules(next)
	return nil
}

// GetDecodeRequestReturnTypes 位置形式的请求数据 Schema
func (c *Client) GetDecodeRequestReturnTypes(address common.Address) ([]types.SchemaNode, error) {
	return c.registry.GetDecodeRequestReturnTypes(address)
}

// GetNamedDecodeRequestReturnTypes 命名形式的请求数据 Schema
func (c *Client) GetNamedDecodeRequestReturnTypes(address common.Address) ([]types.SchemaNode, error) {
	return c.registry.GetNamedDecodeRequestReturnTypes(address)
}

// EncodeRequestData 按模块 Schema 编码
func (c *Client) EncodeRequestData(address common.Address, values []any) ([]byte, error) {
	return c.registry.EncodeRequestData(address, values)
}

// DecodeRequestData 按模块 Schema 解码
func (c *Client) DecodeRequestData(address common.Address, data []byte) ([]any, error) {
	return c.registry.DecodeRequestData(address, data)
}

// EncodeRequestDataJSON 将 JSON 值数组编码为请求数据
func (c *Client) EncodeRequestDataJSON(address common.Address, raw []byte) ([]byte, error) {
	return c.registry.EncodeRequestDataJSON(address, raw)
}

// DecodeRequestDataJSON 解码为可 JSON 序列化的值（整数为十进制字符串，字节为 0x 十六进制）
func (c *Client) DecodeRequestDataJSON(address common.Address, data []byte) ([]any, error) {
	return c.registry.DecodeRequestDataJSON(address, data)
}

// KnownModules 返回已知模块地址（按字节序）
func (c *Client) KnownModules() []common.Address {
	return c.registry.KnownModules()
}

// ModuleName 通过合约绑定读取模块名
func (c *Client) ModuleName(ctx context.Context, address common.Address) (string, error) {
	m, err := c.registry.GetModule(address)
	if err != nil {
		return "", err
	}
	return m.Name(ctx)
}

// ===== 批量读取 =====

func (c *Client) batch() (*batch.Retriever, error) {
	if c.retriever == nil {
		return nil, ErrBatchUnavailable
	}
	return c.retriever, nil
}

// BatchRequests 读取 [start, start+count) 范围内的请求
func (c *Client) BatchRequests(ctx context.Context, start, count uint64) ([]types.RequestRecord, error) {
	r, err := c.batch()
	if err != nil {
		return nil, err
	}
	return r.BatchRequests(ctx, start, count)
}

// BatchResponses 读取某个请求的全部响应
func (c *Client) BatchResponses(ctx context.Context, requestID common.Hash) ([]types.ResponseRecord, error) {
	r, err := c.batch()
	if err != nil {
		return nil, err
	}
	return r.BatchResponses(ctx, requestID)
}

// BatchDisputes 读取范围内请求的争议
func (c *Client) BatchDisputes(ctx context.Context, start, count uint64) ([]types.DisputeRecord, error) {
	r, err := c.batch()
	if err != nil {
		return nil, err
	}
	return r.BatchDisputes(ctx, start, count)
}

// BatchRequestsForFinalize 读取范围内待终结的请求
func (c *Client) BatchRequestsForFinalize(ctx context.Context, start, count uint64) ([]types.RequestForFinalizeRecord, error) {
	r, err := c.batch()
	if err != nil {
		return nil, err
	}
	return r.BatchRequestsForFinalize(ctx, start, count)
}

// BatchModuleNames 一次读取多个模块名
func (c *Client) BatchModuleNames(ctx context.Context, addresses []common.Address) ([]types.ModuleNameRecord, error) {
	r, err := c.batch()
	if err != nil {
		return nil, err
	}
	return r.BatchModuleNames(ctx, addresses)
}

// ===== 元数据 =====

// GetMetadata 读取链上 ipfsHash 对应的元数据
func (c *Client) GetMetadata(ctx context.Context, ipfsHash common.Hash) (*types.RequestMetadata, error) {
	return c.metadata.GetMetadata(ctx, ipfsHash)
}

// AddAlternativeGateways 追加备用 IPFS 网关
func (c *Client) AddAlternativeGateways(urls []string) {
	c.fetcher.AddAlternativeGateways(urls)
}

// PublishMetadata 校验请求模块并发布元数据
func (c *Client) PublishMetadata(ctx context.Context, mods types.RequestModules, md types.RequestMetadata) (common.Hash, error) {
	if c.publisher == nil {
		return common.Hash{}, ErrPinningUnavailable
	}
	if err := c.publisher.CheckRequestModules(mods); err != nil {
		return common.Hash{}, err
	}
	return c.publisher.Publish(ctx, md)
}
