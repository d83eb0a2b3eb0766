package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// DecodeRequestDataFunction 模块发布请求数据形状的函数名
const DecodeRequestDataFunction = "decodeRequestData"

// TypeDescriptor ABI 类型描述（name/type/components 递归结构）
type TypeDescriptor = abi.ArgumentMarshaling

// FunctionFragment 接口描述中的一个片段
type FunctionFragment struct {
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	Inputs          []TypeDescriptor `json:"inputs"`
	Outputs         []TypeDescriptor `json:"outputs"`
	StateMutability string           `json:"stateMutability,omitempty"`
}

// InterfaceDescriptor 模块接口描述（有序片段列表）
type InterfaceDescriptor struct {
	Fragments []FunctionFragment
	// Raw 原始 ABI JSON，用于构造合约绑定
	Raw json.RawMessage
}

// hardhatArtifact 编译产物格式 {"abi": [...]}
type hardhatArtifact struct {
	ABI json.RawMessage `json:"abi"`
}

// ParseInterface 解析 ABI JSON
//
// 同时接受裸数组 [...] 与编译产物 {"abi": [...]} 两种格式。
func ParseInterface(data []byte) (InterfaceDescriptor, error) {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '{' {
		var artifact hardhatArtifact
		if err := json.Unmarshal(raw, &artifact); err != nil {
			return InterfaceDescriptor{}, fmt.Errorf("unmarshal artifact: %w", err)
		}
		if len(artifact.ABI) == 0 {
			return InterfaceDescriptor{}, fmt.Errorf("artifact has no abi field")
		}
		raw = artifact.ABI
	}

	var fragments []FunctionFragment
	if err := json.Unmarshal(raw, &fragments); err != nil {
		return InterfaceDescriptor{}, fmt.Errorf("unmarshal abi: %w", err)
	}
	return InterfaceDescriptor{Fragments: fragments, Raw: append(json.RawMessage(nil), raw...)}, nil
}

// FindFunction 按名称查找 type=function 的片段
func (d InterfaceDescriptor) FindFunction(name string) (FunctionFragment, bool) {
	for _, f := range d.Fragments {
		if f.Name == name && f.Type == "function" {
			return f, true
		}
	}
	return FunctionFragment{}, false
}
