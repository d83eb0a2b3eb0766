// Package batch 实现批量读取协议
//
// 每种批量类型对应一段固定的模板字节码。调用数据为模板字节 ++ ABI 编码参数，
// 以一次无目标地址的只读调用发出，节点执行后返回按固定 Schema 编码的记录列表。
// 调用之间无状态，不做重试、续页或缓存。
package batch

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// Kind 批量类型
type Kind string

// 批量类型
const (
	KindRequests            Kind = "requests"
	KindResponses           Kind = "responses"
	KindDisputes            Kind = "disputes"
	KindRequestsForFinalize Kind = "requests-for-finalize"
	KindModuleNames         Kind = "module-names"
)

// AllKinds 全部批量类型
var AllKinds = []Kind{
	KindRequests,
	KindResponses,
	KindDisputes,
	KindRequestsForFinalize,
	KindModuleNames,
}

// Artifact 模板编译产物名称
func (k Kind) Artifact() string {
	switch k {
	case KindRequests:
		return "BatchRequestsData"
	case KindResponses:
		return "BatchResponseData"
	case KindDisputes:
		return "BatchDisputesData"
	case KindRequestsForFinalize:
		return "BatchRequestsForFinalizeData"
	case KindModuleNames:
		return "BatchModuleNameData"
	default:
		return ""
	}
}

// ParseKind 解析批量类型名称
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown batch kind %q", s)
}

// ===== 参数 =====

var (
	rangeArgs     = mustArguments("address", "uint256", "uint256")
	requestIDArgs = mustArguments("address", "bytes32")
	modulesArgs   = mustArguments("address[]")
)

func mustArguments(typeNames ...string) abi.Arguments {
	args := make(abi.Arguments, len(typeNames))
	for i, name := range typeNames {
		t, err := abi.NewType(name, "", nil)
		if err != nil {
			panic(fmt.Sprintf("batch: invalid argument type %s: %v", name, err))
		}
		args[i] = abi.Argument{Type: t}
	}
	return args
}

// Arguments 返回批量类型的构造参数类型
func (k Kind) Arguments() abi.Arguments {
	switch k {
	case KindResponses:
		return requestIDArgs
	case KindModuleNames:
		return modulesArgs
	default:
		return rangeArgs
	}
}

// ===== 回执 Schema =====

var replySchemas = map[Kind][]types.SchemaNode{
	KindRequests: {
		types.Tuple(types.TupleArrayType, "requests",
			types.Leaf("bytes32", "requestId"),
			types.Tuple(types.TupleArrayType, "responses",
				types.Leaf("bytes32", "responseId"),
				types.Leaf("uint256", "createdAt"),
				types.Leaf("bytes32", "disputeId"),
			),
			types.Leaf("bytes32", "finalizedResponseId"),
			types.Leaf("uint8", "disputeStatus"),
		),
	},
	KindResponses: {
		types.Tuple(types.TupleArrayType, "responses",
			types.Leaf("uint256", "createdAt"),
			types.Leaf("address", "proposer"),
			types.Leaf("bytes32", "requestId"),
			types.Leaf("bytes32", "disputeId"),
			types.Leaf("bytes", "response"),
		),
	},
	KindDisputes: {
		types.Tuple(types.TupleArrayType, "disputes",
			types.Leaf("bytes32", "requestId"),
			types.Leaf("uint256", "requestCreatedAt"),
			types.Leaf("bool", "isFinalized"),
			types.Tuple(types.TupleArrayType, "disputes",
				types.Leaf("bytes32", "disputeId"),
				types.Leaf("bytes32", "responseId"),
				types.Leaf("uint256", "disputeCreatedAt"),
				types.Leaf("uint256", "responseCreatedAt"),
				types.Leaf("uint8", "status"),
			),
		),
	},
	KindRequestsForFinalize: {
		types.Tuple(types.TupleArrayType, "requests",
			types.Leaf("bytes32", "requestId"),
			types.Leaf("uint256", "finalizedAt"),
			types.Tuple(types.TupleArrayType, "responses",
				types.Leaf("bytes32", "responseId"),
				types.Leaf("uint256", "responseCreatedAt"),
			),
		),
	},
	KindModuleNames: {
		types.Leaf("string[]", "names"),
	},
}

// ReplySchema 返回批量类型回执的命名 Schema
func (k Kind) ReplySchema() []types.SchemaNode {
	return replySchemas[k]
}
