// Package sdk 提供 prophet-sdk 的配置加载
//
// 配置来源按优先级从低到高：内置默认值 → JSON 配置文件 → .env 文件 → 进程环境变量。
package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	logconfig "github.com/weisyn/prophet-sdk/internal/config/log"
)

// 环境变量名
const (
	EnvRPCURL             = "PROPHET_RPC_URL"
	EnvRegistryAddress    = "PROPHET_REGISTRY"
	EnvPinataAPIKey       = "PINATA_API_KEY"
	EnvPinataSecretAPIKey = "PINATA_SECRET_API_KEY"
)

// Config SDK 配置
type Config struct {
	// 节点端点（按优先级排序）
	RPCEndpoints []string `json:"rpc_endpoints"`
	// 注册表合约地址
	RegistryAddress string `json:"registry_address"`
	// 固定读取的区块高度，为空时读取最新状态
	BlockNumber *uint64 `json:"block_number,omitempty"`
	// 单次读调用超时，例如 "30s"
	RequestTimeout string `json:"request_timeout"`

	Templates TemplatesConfig `json:"templates"`
	Modules   []ModuleConfig  `json:"modules,omitempty"`
	IPFS      IPFSConfig      `json:"ipfs"`
	Cache     CacheConfig     `json:"cache"`
	HTTP      HTTPConfig      `json:"http"`

	Log *logconfig.LogOptions `json:"log,omitempty"`
}

// TemplatesConfig 批量读取模板配置
type TemplatesConfig struct {
	Dir     string `json:"dir"`     // 编译产物目录
	Version string `json:"version"` // 模板版本标识
}

// ModuleConfig 启动时加载的已知模块
type ModuleConfig struct {
	Address string `json:"address"`
	ABIPath string `json:"abi_path"`
}

// IPFSConfig 元数据存储配置
type IPFSConfig struct {
	Gateways           []string `json:"gateways"` // 按顺序尝试的网关镜像
	PinataEndpoint     string   `json:"pinata_endpoint"`
	PinataAPIKey       string   `json:"pinata_api_key,omitempty"`
	PinataSecretAPIKey string   `json:"pinata_secret_api_key,omitempty"`
	Timeout            string   `json:"timeout"`
}

// CacheConfig 元数据缓存配置
type CacheConfig struct {
	LifeWindow   string `json:"life_window"`    // 内存缓存条目生命周期
	MaxEntrySize int    `json:"max_entry_size"` // 单条目最大字节数
	DiskDir      string `json:"disk_dir"`       // 为空时不启用磁盘缓存
}

// HTTPConfig 只读 HTTP 网关配置
type HTTPConfig struct {
	Listen string `json:"listen"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		RPCEndpoints:   []string{"http://localhost:8545"},
		RequestTimeout: "30s",
		Templates: TemplatesConfig{
			Dir:     "./artifacts/batching",
			Version: "v1",
		},
		IPFS: IPFSConfig{
			Gateways:       []string{"https://ipfs.io/ipfs"},
			PinataEndpoint: "https://api.pinata.cloud",
			Timeout:        "50s",
		},
		Cache: CacheConfig{
			LifeWindow:   "30m",
			MaxEntrySize: 64 * 1024,
		},
		HTTP: HTTPConfig{Listen: "127.0.0.1:8088"},
	}
}

// Load 加载配置
// path 为空或文件不存在时使用默认配置；envFile 为空时读取当前目录的 .env（可选）
func Load(path string, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		//nolint:gosec // G304: 配置路径由调用方指定
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// 使用默认配置
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshaling config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(envFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 应用 .env 与进程环境变量覆盖
func (c *Config) applyEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}
	fileEnv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading env file %s: %w", envFile, err)
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileEnv[key]
	}

	if v := lookup(EnvRPCURL); v != "" {
		c.RPCEndpoints = []string{v}
	}
	if v := lookup(EnvRegistryAddress); v != "" {
		c.RegistryAddress = v
	}
	if v := lookup(EnvPinataAPIKey); v != "" {
		c.IPFS.PinataAPIKey = v
	}
	if v := lookup(EnvPinataSecretAPIKey); v != "" {
		c.IPFS.PinataSecretAPIKey = v
	}
	return nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.RPCEndpoints) == 0 {
		return fmt.Errorf("no rpc endpoints configured")
	}
	if c.RegistryAddress != "" && !common.IsHexAddress(c.RegistryAddress) {
		return fmt.Errorf("invalid registry address %q", c.RegistryAddress)
	}
	for i, m := range c.Modules {
		if !common.IsHexAddress(m.Address) {
			return fmt.Errorf("modules[%d]: invalid address %q", i, m.Address)
		}
		if m.ABIPath == "" {
			return fmt.Errorf("modules[%d]: abi_path is required", i)
		}
	}
	for _, d := range []struct {
		name  string
		value string
	}{
		{"request_timeout", c.RequestTimeout},
		{"ipfs.timeout", c.IPFS.Timeout},
		{"cache.life_window", c.Cache.LifeWindow},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}
	return nil
}

// Registry 返回注册表地址
func (c *Config) Registry() common.Address {
	return common.HexToAddress(c.RegistryAddress)
}

// GetRequestTimeout 获取读调用超时
func (c *Config) GetRequestTimeout() time.Duration {
	return parseDurationOr(c.RequestTimeout, 30*time.Second)
}

// GetIPFSTimeout 获取网关请求超时
func (c *Config) GetIPFSTimeout() time.Duration {
	return parseDurationOr(c.IPFS.Timeout, 50*time.Second)
}

// GetCacheLifeWindow 获取内存缓存生命周期
func (c *Config) GetCacheLifeWindow() time.Duration {
	return parseDurationOr(c.Cache.LifeWindow, 30*time.Minute)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
