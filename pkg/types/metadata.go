package types

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// RequestMetadata 请求元数据（存放于内容寻址存储）
//
// 创建请求时 ReturnedTypes 由发布流程根据已知模块的命名 Schema 填充。
type RequestMetadata struct {
	ResponseType  string                  `json:"responseType"`
	Description   string                  `json:"description"`
	ReturnedTypes map[string][]SchemaNode `json:"returnedTypes,omitempty"`
}

// RequestModules 请求引用的五类模块地址
type RequestModules struct {
	RequestModule    common.Address
	ResponseModule   common.Address
	DisputeModule    common.Address
	ResolutionModule common.Address
	FinalityModule   common.Address
}

// Named 按固定顺序返回 (字段名, 地址)
func (m RequestModules) Named() []struct {
	Name    string
	Address common.Address
} {
	return []struct {
		Name    string
		Address common.Address
	}{
		{"requestModule", m.RequestModule},
		{"responseModule", m.ResponseModule},
		{"disputeModule", m.DisputeModule},
		{"resolutionModule", m.ResolutionModule},
		{"finalityModule", m.FinalityModule},
	}
}

// IsValidResponseType 判断是否为 Solidity 基本类型或其动态数组
//
// 支持 address/bool/string/bytes、bytes1..bytes32、
// uint/int 及 8..256 位宽（8 的倍数）。
func IsValidResponseType(t string) bool {
	t = strings.TrimSuffix(t, "[]")
	switch t {
	case "address", "bool", "string", "bytes", "uint", "int":
		return true
	}
	if rest, ok := strings.CutPrefix(t, "bytes"); ok {
		n, err := strconv.Atoi(rest)
		return err == nil && rest[0] != '0' && n >= 1 && n <= 32
	}
	rest, ok := strings.CutPrefix(t, "uint")
	if !ok {
		rest, ok = strings.CutPrefix(t, "int")
	}
	if !ok {
		return false
	}
	n, err := strconv.Atoi(rest)
	return err == nil && rest[0] != '0' && n >= 8 && n <= 256 && n%8 == 0
}
