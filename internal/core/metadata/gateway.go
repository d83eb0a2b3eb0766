package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	logimpl "github.com/weisyn/prophet-sdk/internal/core/infrastructure/log"
	"github.com/weisyn/prophet-sdk/internal/core/infrastructure/metrics"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/storage"
)

// 指标来源标签
const (
	sourceMemory  = "memory"
	sourceDisk    = "disk"
	sourceGateway = "gateway"
)

const (
	defaultGatewayTimeout = 50 * time.Second
	maxMetadataSize       = 4 << 20
	cacheKeyPrefix        = "metadata:"
)

// Fetcher 按 CID 读取原始元数据
type Fetcher interface {
	Fetch(ctx context.Context, cid string) ([]byte, error)
}

// GatewayOptions 网关读取器参数
type GatewayOptions struct {
	Gateways   []string
	Timeout    time.Duration
	HTTPClient *http.Client

	// 可选缓存层，内容按 CID 寻址，不设置过期
	Memory storage.MemoryStore
	Disk   storage.BadgerStore

	Logger  log.Logger
	Metrics *metrics.Metrics
}

// GatewayFetcher 依次尝试网关镜像读取元数据
type GatewayFetcher struct {
	mu       sync.RWMutex
	gateways []string

	client  *http.Client
	memory  storage.MemoryStore
	disk    storage.BadgerStore
	logger  log.Logger
	metrics *metrics.Metrics
}

var _ Fetcher = (*GatewayFetcher)(nil)

// NewGatewayFetcher 创建网关读取器，至少需要一个网关
func NewGatewayFetcher(opts GatewayOptions) (*GatewayFetcher, error) {
	gateways := normalizeGateways(opts.Gateways)
	if len(gateways) == 0 {
		return nil, errors.New("at least one ipfs gateway is required")
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultGatewayTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &GatewayFetcher{
		gateways: gateways,
		client:   client,
		memory:   opts.Memory,
		disk:     opts.Disk,
		logger:   logimpl.NewModuleLogger(opts.Logger, "metadata"),
		metrics:  opts.Metrics,
	}, nil
}

// Gateways 返回当前网关列表（按尝试顺序）
func (f *GatewayFetcher) Gateways() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.gateways)
}

// AddAlternativeGateways 追加备用网关，已存在的地址被忽略
func (f *GatewayFetcher) AddAlternativeGateways(urls []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range normalizeGateways(urls) {
		if !slices.Contains(f.gateways, u) {
			f.gateways = append(f.gateways, u)
		}
	}
}

// Fetch 读取 CID 对应的内容
//
// 依次查询内存缓存、磁盘缓存，再按顺序尝试各网关，
// 全部失败时返回包装了各网关错误的 ErrAllGatewaysFailed。
func (f *GatewayFetcher) Fetch(ctx context.Context, cid string) ([]byte, error) {
	if !IsIpfsCID(cid) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCID, cid)
	}
	key := cacheKeyPrefix + cid

	if data := f.fromMemory(ctx, key); data != nil {
		return data, nil
	}
	if data := f.fromDisk(ctx, key); data != nil {
		f.toMemory(ctx, key, data)
		return data, nil
	}

	var errs []error
	for _, gw := range f.Gateways() {
		data, err := f.get(ctx, gw+"/"+cid)
		f.metrics.MetadataFetch(sourceGateway, err)
		if err == nil {
			f.logger.Debugf("从网关读取元数据成功: cid=%s gateway=%s size=%d", cid, gw, len(data))
			f.toMemory(ctx, key, data)
			f.toDisk(ctx, key, data)
			return data, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.logger.Warnf("网关读取失败，尝试下一个: gateway=%s err=%v", gw, err)
		errs = append(errs, fmt.Errorf("%s: %w", gw, err))
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrAllGatewaysFailed, cid, errors.Join(errs...))
}

func (f *GatewayFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxMetadataSize {
		return nil, fmt.Errorf("metadata exceeds %d bytes", maxMetadataSize)
	}
	// 缓存不过期，非 JSON 内容视为该镜像失败
	if !json.Valid(data) {
		return nil, ErrMalformedMetadata
	}
	return data, nil
}

func (f *GatewayFetcher) fromMemory(ctx context.Context, key string) []byte {
	if f.memory == nil {
		return nil
	}
	data, ok, err := f.memory.Get(ctx, key)
	if err != nil || !ok {
		return nil
	}
	f.metrics.MetadataFetch(sourceMemory, nil)
	return data
}

func (f *GatewayFetcher) fromDisk(ctx context.Context, key string) []byte {
	if f.disk == nil {
		return nil
	}
	data, err := f.disk.Get(ctx, []byte(key))
	if err != nil {
		f.logger.Warnf("读取磁盘缓存失败: %v", err)
		return nil
	}
	if data == nil {
		return nil
	}
	f.metrics.MetadataFetch(sourceDisk, nil)
	return data
}

func (f *GatewayFetcher) toMemory(ctx context.Context, key string, data []byte) {
	if f.memory == nil {
		return
	}
	if err := f.memory.Set(ctx, key, data, 0); err != nil {
		f.logger.Debugf("写入内存缓存失败: %v", err)
	}
}

func (f *GatewayFetcher) toDisk(ctx context.Context, key string, data []byte) {
	if f.disk == nil {
		return
	}
	if err := f.disk.Set(ctx, []byte(key), data); err != nil {
		f.logger.Warnf("写入磁盘缓存失败: %v", err)
	}
}

func normalizeGateways(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimRight(strings.TrimSpace(u), "/")
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}
