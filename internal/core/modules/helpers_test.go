package modules

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const httpModuleABI = `[
	{
		"type": "function",
		"name": "decodeRequestData",
		"stateMutability": "view",
		"inputs": [{"name": "_requestId", "type": "bytes32"}],
		"outputs": [
			{"name": "url", "type": "string"},
			{"name": "amount", "type": "uint256"}
		]
	},
	{
		"type": "function",
		"name": "moduleName",
		"stateMutability": "pure",
		"inputs": [],
		"outputs": [{"name": "_moduleName", "type": "string"}]
	}
]`

const nestedModuleABI = `{"abi": [
	{
		"type": "function",
		"name": "decodeRequestData",
		"stateMutability": "view",
		"inputs": [{"name": "_requestId", "type": "bytes32"}],
		"outputs": [
			{
				"name": "params",
				"type": "tuple",
				"components": [
					{
						"name": "rounds",
						"type": "tuple[]",
						"components": [
							{
								"name": "bond",
								"type": "tuple",
								"components": [{"name": "amount", "type": "uint256"}]
							}
						]
					}
				]
			}
		]
	}
]}`

const emptyOutputsABI = `[
	{"type": "function", "name": "decodeRequestData", "inputs": [], "outputs": []}
]`

const noDecodeABI = `[
	{"type": "function", "name": "moduleName", "inputs": [], "outputs": [{"name": "", "type": "string"}]},
	{"type": "event", "name": "decodeRequestData", "inputs": [], "anonymous": false}
]`

var (
	httpModuleAddr   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	nestedModuleAddr = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	emptyModuleAddr  = common.HexToAddress("0x00000000000000000000000000000000000000a3")
	noDecodeAddr     = common.HexToAddress("0x00000000000000000000000000000000000000a4")
)

func mustModule(t *testing.T, addr common.Address, abiJSON string) *Module {
	t.Helper()
	m, err := NewModule(addr, []byte(abiJSON), nil)
	require.NoError(t, err)
	return m
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(map[common.Address]*Module{
		httpModuleAddr:   mustModule(t, httpModuleAddr, httpModuleABI),
		nestedModuleAddr: mustModule(t, nestedModuleAddr, nestedModuleABI),
		emptyModuleAddr:  mustModule(t, emptyModuleAddr, emptyOutputsABI),
		noDecodeAddr:     mustModule(t, noDecodeAddr, noDecodeABI),
	}, nil, nil)
}

// fakeCaller 按调用数据返回预设结果
type fakeCaller struct {
	code   []byte
	result []byte
	err    error
	calls  []ethereum.CallMsg
}

func (f *fakeCaller) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return f.code, nil
}

func (f *fakeCaller) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls = append(f.calls, call)
	return f.result, f.err
}
