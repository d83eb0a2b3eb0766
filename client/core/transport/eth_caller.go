package transport

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EthCaller 基于 ethclient 的端点
type EthCaller struct {
	endpoint string
	client   *ethclient.Client
	// block 为空时读取最新状态
	block   *big.Int
	timeout time.Duration
}

// DialEthCaller 连接节点
// block 非空时所有读调用固定在该高度
func DialEthCaller(ctx context.Context, endpoint string, block *uint64, timeout time.Duration) (*EthCaller, error) {
	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return NewEthCaller(endpoint, client, block, timeout), nil
}

// NewEthCaller 使用已有连接创建端点
func NewEthCaller(endpoint string, client *ethclient.Client, block *uint64, timeout time.Duration) *EthCaller {
	c := &EthCaller{
		endpoint: endpoint,
		client:   client,
		timeout:  timeout,
	}
	if block != nil {
		c.block = new(big.Int).SetUint64(*block)
	}
	return c
}

// Endpoint 返回端点地址
func (c *EthCaller) Endpoint() string {
	return c.endpoint
}

func (c *EthCaller) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *EthCaller) blockOr(blockNumber *big.Int) *big.Int {
	if blockNumber != nil {
		return blockNumber
	}
	return c.block
}

// Call 发出无目标地址的只读调用，节点执行 payload 并返回其输出
func (c *EthCaller) Call(ctx context.Context, payload []byte) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.client.CallContract(ctx, ethereum.CallMsg{Data: payload}, c.block)
}

// CodeAt 实现 bind.ContractCaller
func (c *EthCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.client.CodeAt(ctx, contract, c.blockOr(blockNumber))
}

// CallContract 实现 bind.ContractCaller
func (c *EthCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.client.CallContract(ctx, call, c.blockOr(blockNumber))
}

// Ping 读取最新区块高度
func (c *EthCaller) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.client.BlockNumber(ctx)
	return err
}

// Close 关闭连接
func (c *EthCaller) Close() {
	c.client.Close()
}
