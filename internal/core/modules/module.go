package modules

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// moduleNameFunction 模块自描述名称的只读函数
const moduleNameFunction = "moduleName"

// Module 已知模块（地址 + 接口描述 + 合约绑定）
//
// 构造后不可变，注册表只做整体替换。
type Module struct {
	Address   common.Address
	Interface types.InterfaceDescriptor
	// ABI 仅在 go-ethereum 能解析接口描述时可用
	ABI abi.ABI
	// Binding 为空表示未连接节点或接口无法绑定，只能做离线的 Schema 与编解码操作
	Binding *bind.BoundContract

	bindErr error
}

// NewModule 解析接口描述并创建模块
//
// caller 为 nil 时不创建合约绑定。go-ethereum 不接受匿名元组字段，
// 这类接口仍可注册，Schema 与编解码照常工作，只是没有合约绑定。
func NewModule(address common.Address, abiJSON []byte, caller bind.ContractCaller) (*Module, error) {
	desc, err := types.ParseInterface(abiJSON)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", address.Hex(), err)
	}

	m := &Module{
		Address:   address,
		Interface: desc,
	}
	parsed, err := abi.JSON(bytes.NewReader(desc.Raw))
	if err != nil {
		m.bindErr = fmt.Errorf("parse abi: %w", err)
		return m, nil
	}
	m.ABI = parsed
	if caller != nil {
		m.Binding = bind.NewBoundContract(address, parsed, caller, nil, nil)
	}
	return m, nil
}

// Name 通过合约绑定读取模块名称
func (m *Module) Name(ctx context.Context) (string, error) {
	if m.bindErr != nil {
		return "", fmt.Errorf("module %s has no contract binding: %w", m.Address.Hex(), m.bindErr)
	}
	if m.Binding == nil {
		return "", fmt.Errorf("module %s has no contract binding", m.Address.Hex())
	}
	if _, ok := m.ABI.Methods[moduleNameFunction]; !ok {
		return "", fmt.Errorf("module %s doesn't have a %s function", m.Address.Hex(), moduleNameFunction)
	}

	var out []interface{}
	if err := m.Binding.Call(&bind.CallOpts{Context: ctx}, &out, moduleNameFunction); err != nil {
		return "", fmt.Errorf("call %s on %s: %w", moduleNameFunction, m.Address.Hex(), err)
	}
	if len(out) != 1 {
		return "", fmt.Errorf("%s returned %d values", moduleNameFunction, len(out))
	}
	name, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%s returned %T", moduleNameFunction, out[0])
	}
	return name, nil
}
