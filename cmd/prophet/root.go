package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/weisyn/prophet-sdk/client"
	"github.com/weisyn/prophet-sdk/client/core/output"
	"github.com/weisyn/prophet-sdk/client/core/transport"
	logconfig "github.com/weisyn/prophet-sdk/internal/config/log"
	sdkconfig "github.com/weisyn/prophet-sdk/internal/config/sdk"
	logimpl "github.com/weisyn/prophet-sdk/internal/core/infrastructure/log"
	"github.com/weisyn/prophet-sdk/internal/core/infrastructure/storage"
	"github.com/weisyn/prophet-sdk/internal/core/metadata"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigFile   string   // 配置文件
	EnvFile      string   // .env 文件
	RPC          []string // 覆盖配置中的节点端点
	Registry     string   // 覆盖注册表地址
	OutputFormat string   // 输出格式
	Silent       bool     // 静默模式
}

// cli 一次命令执行的共享状态
type cli struct {
	flags     GlobalFlags
	config    *sdkconfig.Config
	formatter *output.Formatter

	// backend 非空时替代按配置拨号
	backend transport.Backend
}

func newCLI() *cli {
	return &cli{}
}

// rootCommand 构建命令树
func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "prophet",
		Short: "Prophet 预言机 SDK 命令行客户端",
		Long: `prophet - Prophet 预言机的只读客户端

功能:
- 查询模块 decodeRequestData 的 Schema
- 按模块 Schema 编码/解码请求数据
- 通过批量模板一次读取请求、响应、争议与模块名
- 读取与发布请求元数据（IPFS）
- 启动只读 HTTP 网关`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.flags.ConfigFile, "config", "c", "", "配置文件路径 (JSON)")
	pf.StringVar(&c.flags.EnvFile, "env-file", "", ".env 文件路径 (默认: ./.env)")
	pf.StringSliceVar(&c.flags.RPC, "rpc", nil, "节点端点，可重复指定，按顺序故障转移")
	pf.StringVar(&c.flags.Registry, "registry", "", "注册表合约地址")
	pf.StringVarP(&c.flags.OutputFormat, "output", "o", "json", "输出格式: json|pretty|table|text")
	pf.BoolVar(&c.flags.Silent, "silent", false, "静默模式 (仅输出结果)")

	root.AddCommand(
		c.schemaCommand(),
		c.modulesCommand(),
		c.encodeCommand(),
		c.decodeCommand(),
		c.batchCommand(),
		c.metadataCommand(),
		c.serveCommand(),
		c.versionCommand(),
	)
	return root
}

// setup 初始化格式化器与配置
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(c.flags.OutputFormat)
	if err != nil {
		return err
	}
	c.formatter = output.NewFormatter(format, cmd.OutOrStdout())
	c.formatter.SetLogWriter(cmd.ErrOrStderr())
	c.formatter.SetSilent(c.flags.Silent)

	cfg, err := sdkconfig.Load(c.flags.ConfigFile, c.flags.EnvFile)
	if err != nil {
		return fmt.Errorf("加载配置: %w", err)
	}
	if len(c.flags.RPC) > 0 {
		cfg.RPCEndpoints = c.flags.RPC
	}
	if c.flags.Registry != "" {
		cfg.RegistryAddress = c.flags.Registry
	}
	if cfg.Log != nil {
		logger, err := logimpl.New(logconfig.New(cfg.Log))
		if err != nil {
			return err
		}
		logimpl.SetLogger(logger)
	}
	c.config = cfg
	return nil
}

// clientOptions 各命令需要的客户端能力
type clientOptions struct {
	templates bool // 批量读取
	cache     bool // 元数据缓存
}

// newClient 创建客户端，返回的 cleanup 释放连接与缓存
func (c *cli) newClient(ctx context.Context, o clientOptions) (*client.Client, func(), error) {
	logger := logimpl.GetLogger()
	opts := client.Options{
		Logger:        logger,
		Backend:       c.backend,
		SkipTemplates: !o.templates,
	}

	closers := []func(){}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if o.cache {
		mem, disk, err := storage.Open(c.config, logger)
		if err != nil {
			return nil, nil, err
		}
		opts.Memory = mem
		closers = append(closers, func() { _ = mem.Close() })
		if disk != nil {
			opts.Disk = disk
			closers = append(closers, func() { _ = disk.Close() })
		}
	}

	cl, err := client.New(ctx, c.config, opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, cl.Close)
	return cl, cleanup, nil
}

// ===== 参数解析 =====

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// parseBytes32 接受 0x 十六进制 bytes32 或 CIDv0
func parseBytes32(s string) (common.Hash, error) {
	if metadata.IsIpfsCID(s) {
		return metadata.CidToBytes32(s)
	}
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid bytes32 %q", s)
	}
	return common.BytesToHash(b), nil
}

// readArg 参数为 "-" 时从标准输入读取
func readArg(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return []byte(strings.TrimSpace(string(data))), nil
}

// readFileArg 读取文件，路径为 "-" 时读取标准输入
func readFileArg(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return readArg(cmd, path)
	}
	//nolint:gosec // G304: 文件路径由用户指定
	return os.ReadFile(path)
}
