// Package transport 提供只读调用的传输层
//
// 批量读取通过 Caller 发出无目标地址的只读调用；模块绑定通过
// bind.ContractCaller 调用已部署合约。Backend 同时满足两者，
// EthCaller 为基于 ethclient 的实现，FallbackCaller 在多个端点之间故障转移。
package transport

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

// Caller 只读调用接口
// payload 为完整调用数据，返回原始回执字节；回滚、超时等均以错误返回
type Caller interface {
	Call(ctx context.Context, payload []byte) ([]byte, error)
}

// Backend 单个节点端点
type Backend interface {
	Caller
	bind.ContractCaller

	// Ping 检查端点可用性
	Ping(ctx context.Context) error

	// Close 释放连接
	Close()
}
