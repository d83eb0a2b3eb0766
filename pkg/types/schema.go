// Package types 定义 prophet-sdk 的公共数据结构
//
// 包含模块接口描述、Schema 树、批量记录以及错误类型，
// 供 internal/core 各模块与 client 门面共享。
package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Schema 节点类型常量
const (
	TupleType      = "tuple"
	TupleArrayType = "tuple[]"
)

// SchemaNode Schema 树节点
//
// 只有 Type 为 tuple / tuple[] 的节点携带 Components，
// Components 保持 ABI 声明顺序（位置编码依赖该顺序）。
// 位置模式下 Name 为空并在 JSON 中省略。
type SchemaNode struct {
	Name       string       `json:"name,omitempty"`
	Type       string       `json:"type"`
	Components []SchemaNode `json:"components,omitempty"`
}

// IsTuple 是否为元组节点（tuple 或 tuple[]）
func (n SchemaNode) IsTuple() bool {
	return IsTupleType(n.Type)
}

// IsTupleType 判断类型名是否为元组类型
func IsTupleType(t string) bool {
	return t == TupleType || t == TupleArrayType
}

// Leaf 创建叶子节点
func Leaf(typ, name string) SchemaNode {
	return SchemaNode{Name: name, Type: typ}
}

// Tuple 创建元组节点，children 按声明顺序排列
func Tuple(typ, name string, children ...SchemaNode) SchemaNode {
	if children == nil {
		children = []SchemaNode{}
	}
	return SchemaNode{Name: name, Type: typ, Components: children}
}

// StripNames 去掉所有层级的 name 字段，得到位置形式的 Schema
func StripNames(nodes []SchemaNode) []SchemaNode {
	out := make([]SchemaNode, 0, len(nodes))
	for _, n := range nodes {
		stripped := SchemaNode{Type: n.Type}
		if n.IsTuple() {
			stripped.Components = StripNames(n.Components)
		}
		out = append(out, stripped)
	}
	return out
}

// Depth 返回元组嵌套深度（叶子为 0）
func (n SchemaNode) Depth() int {
	if !n.IsTuple() {
		return 0
	}
	deepest := 0
	for _, c := range n.Components {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// String 返回规范类型表达式，例如 (uint256,address)[]
func (n SchemaNode) String() string {
	if !n.IsTuple() {
		return n.Type
	}
	parts := make([]string, len(n.Components))
	for i, c := range n.Components {
		parts[i] = c.String()
	}
	expr := "(" + strings.Join(parts, ",") + ")"
	if n.Type == TupleArrayType {
		expr += "[]"
	}
	return expr
}

// ToArgumentMarshaling 将 Schema 节点转换为 go-ethereum 的参数描述
//
// go-ethereum 不接受匿名或重名的元组字段，转换时统一以 f<序号> 命名，
// 这些名字只用于内部反射结构体，不影响编码布局。
func (n SchemaNode) ToArgumentMarshaling(index int) abi.ArgumentMarshaling {
	arg := abi.ArgumentMarshaling{Name: fmt.Sprintf("f%d", index), Type: n.Type}
	if n.IsTuple() {
		arg.Components = make([]abi.ArgumentMarshaling, len(n.Components))
		for i, c := range n.Components {
			arg.Components[i] = c.ToArgumentMarshaling(i)
		}
	}
	return arg
}

// Arguments 将一组 Schema 节点构造成 abi.Arguments
func Arguments(schema []SchemaNode) (abi.Arguments, error) {
	args := make(abi.Arguments, 0, len(schema))
	for i, n := range schema {
		m := n.ToArgumentMarshaling(i)
		t, err := abi.NewType(m.Type, m.InternalType, m.Components)
		if err != nil {
			return nil, fmt.Errorf("schema node %d (%s): %w", i, n.String(), err)
		}
		args = append(args, abi.Argument{Name: m.Name, Type: t})
	}
	return args, nil
}
