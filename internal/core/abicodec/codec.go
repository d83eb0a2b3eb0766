// Package abicodec 基于 Schema 树的通用 ABI 编解码
//
// 值树约定：
//   - tuple 对应 []any，子值按声明顺序排列
//   - 元素含 tuple 的数组对应 []any
//   - 叶子使用 go-ethereum 的原生类型（*big.Int、common.Address、[32]byte、[]byte、string、bool、定长整数）
//
// 编解码本身交给 accounts/abi，本包只负责值树与反射结构体之间的转换。
package abicodec

import (
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// Encode 按 schema 对值树做 ABI 编码
func Encode(schema []types.SchemaNode, values []any) ([]byte, error) {
	args, err := types.Arguments(schema)
	if err != nil {
		return nil, &types.EncodingError{Err: err}
	}
	if len(values) != len(args) {
		return nil, &types.EncodingError{
			Err: fmt.Errorf("argument count mismatch: got %d for %d", len(values), len(args)),
		}
	}

	natives := make([]any, len(values))
	for i, v := range values {
		native, err := toNative(args[i].Type, v)
		if err != nil {
			return nil, &types.EncodingError{Err: fmt.Errorf("argument %d: %w", i, err)}
		}
		natives[i] = native
	}

	data, err := args.Pack(natives...)
	if err != nil {
		return nil, &types.EncodingError{Err: err}
	}
	return data, nil
}

// Decode 按 schema 解码字节，返回与 schema 同形的值树
func Decode(schema []types.SchemaNode, data []byte) ([]any, error) {
	args, err := types.Arguments(schema)
	if err != nil {
		return nil, &types.DecodingError{Err: err}
	}

	unpacked, err := args.Unpack(data)
	if err != nil {
		return nil, &types.DecodingError{Err: err}
	}
	if len(unpacked) != len(args) {
		return nil, &types.DecodingError{
			Err: fmt.Errorf("decoded %d values for %d arguments", len(unpacked), len(args)),
		}
	}

	out := make([]any, len(unpacked))
	for i, v := range unpacked {
		out[i] = fromNative(args[i].Type, reflect.ValueOf(v))
	}
	return out, nil
}

// containsTuple 类型内部是否含有 tuple（需要反射结构体）
func containsTuple(t abi.Type) bool {
	switch t.T {
	case abi.TupleTy:
		return true
	case abi.SliceTy, abi.ArrayTy:
		return containsTuple(*t.Elem)
	default:
		return false
	}
}

// toNative 将值树节点转换为 abi.Pack 可接受的 Go 值
func toNative(t abi.Type, v any) (any, error) {
	switch t.T {
	case abi.TupleTy:
		children, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("cannot use %T as %s", v, t.String())
		}
		if len(children) != len(t.TupleElems) {
			return nil, fmt.Errorf("%s expects %d components, got %d", t.String(), len(t.TupleElems), len(children))
		}
		st := reflect.New(t.TupleType).Elem()
		for i, child := range children {
			native, err := toNative(*t.TupleElems[i], child)
			if err != nil {
				return nil, fmt.Errorf("component %d: %w", i, err)
			}
			if err := assign(st.Field(i), native); err != nil {
				return nil, fmt.Errorf("component %d: %w", i, err)
			}
		}
		return st.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		elems, ok := v.([]any)
		if !ok {
			if containsTuple(t) {
				return nil, fmt.Errorf("cannot use %T as %s", v, t.String())
			}
			return v, nil
		}
		var container reflect.Value
		if t.T == abi.SliceTy {
			container = reflect.MakeSlice(t.GetType(), len(elems), len(elems))
		} else {
			if len(elems) != t.Size {
				return nil, fmt.Errorf("%s expects %d elements, got %d", t.String(), t.Size, len(elems))
			}
			container = reflect.New(t.GetType()).Elem()
		}
		for i, e := range elems {
			native, err := toNative(*t.Elem, e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			if err := assign(container.Index(i), native); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return container.Interface(), nil

	default:
		return v, nil
	}
}

// assign 将 native 写入反射位置，类型必须可赋值
func assign(dst reflect.Value, native any) error {
	if native == nil {
		return fmt.Errorf("nil value for %s", dst.Type())
	}
	src := reflect.ValueOf(native)
	if !src.Type().AssignableTo(dst.Type()) {
		return fmt.Errorf("cannot use %T as %s", native, dst.Type())
	}
	dst.Set(src)
	return nil
}

// fromNative 将 abi.Unpack 的结果还原为值树
func fromNative(t abi.Type, rv reflect.Value) any {
	switch t.T {
	case abi.TupleTy:
		out := make([]any, len(t.TupleElems))
		for i, elem := range t.TupleElems {
			out[i] = fromNative(*elem, rv.Field(i))
		}
		return out

	case abi.SliceTy, abi.ArrayTy:
		if !containsTuple(t) {
			return rv.Interface()
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = fromNative(*t.Elem, rv.Index(i))
		}
		return out

	default:
		return rv.Interface()
	}
}
