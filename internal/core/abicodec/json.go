package abicodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// ===== JSON → 值树 =====

// ValuesFromJSON 将 JSON 数组按 schema 转换为可编码的值树
//
// 整数接受 JSON 数字或十进制/0x 十六进制字符串，字节类型接受 0x 十六进制字符串，
// tuple 以按位置排列的 JSON 数组表示。
func ValuesFromJSON(schema []types.SchemaNode, raw []byte) ([]any, error) {
	args, err := types.Arguments(schema)
	if err != nil {
		return nil, &types.EncodingError{Err: err}
	}

	var items []json.RawMessage
	if err := unmarshalNumber(raw, &items); err != nil {
		return nil, &types.EncodingError{Err: fmt.Errorf("values must be a JSON array: %w", err)}
	}
	if len(items) != len(args) {
		return nil, &types.EncodingError{
			Err: fmt.Errorf("argument count mismatch: got %d for %d", len(items), len(args)),
		}
	}

	out := make([]any, len(items))
	for i, item := range items {
		v, err := fromJSON(args[i].Type, item)
		if err != nil {
			return nil, &types.EncodingError{Err: fmt.Errorf("argument %d: %w", i, err)}
		}
		out[i] = v
	}
	return out, nil
}

func fromJSON(t abi.Type, raw json.RawMessage) (any, error) {
	switch t.T {
	case abi.TupleTy, abi.SliceTy, abi.ArrayTy:
		var items []json.RawMessage
		if err := unmarshalNumber(raw, &items); err != nil {
			return nil, fmt.Errorf("%s expects a JSON array: %w", t.String(), err)
		}
		elemType := func(i int) abi.Type {
			if t.T == abi.TupleTy {
				if i < len(t.TupleElems) {
					return *t.TupleElems[i]
				}
				return abi.Type{}
			}
			return *t.Elem
		}
		if t.T == abi.TupleTy && len(items) != len(t.TupleElems) {
			return nil, fmt.Errorf("%s expects %d components, got %d", t.String(), len(t.TupleElems), len(items))
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := fromJSON(elemType(i), item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil

	case abi.BoolTy:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("bool: %w", err)
		}
		return b, nil

	case abi.StringTy:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("string: %w", err)
		}
		return s, nil

	case abi.AddressTy:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %s", string(raw))
		}
		return common.HexToAddress(s), nil

	case abi.BytesTy:
		b, err := hexFromJSON(raw)
		if err != nil {
			return nil, err
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := hexFromJSON(raw)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("bytes%d expects %d bytes, got %d", t.Size, t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.IntTy, abi.UintTy:
		n, err := bigFromJSON(raw)
		if err != nil {
			return nil, err
		}
		if t.T == abi.UintTy && n.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for %s", n, t.String())
		}
		goType := t.GetType()
		if goType == bigIntType {
			return n, nil
		}
		v := reflect.New(goType).Elem()
		if t.T == abi.UintTy {
			if !n.IsUint64() || v.OverflowUint(n.Uint64()) {
				return nil, fmt.Errorf("value %s overflows %s", n, t.String())
			}
			v.SetUint(n.Uint64())
		} else {
			if !n.IsInt64() || v.OverflowInt(n.Int64()) {
				return nil, fmt.Errorf("value %s overflows %s", n, t.String())
			}
			v.SetInt(n.Int64())
		}
		return v.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported type %s", t.String())
	}
}

func unmarshalNumber(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func hexFromJSON(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("bytes must be a 0x hex string: %w", err)
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("bytes %q: %w", s, err)
	}
	return b, nil
}

func bigFromJSON(raw json.RawMessage) (*big.Int, error) {
	var num json.Number
	if err := unmarshalNumber(raw, &num); err == nil {
		n, ok := new(big.Int).SetString(num.String(), 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %s", num)
		}
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("integer must be a number or string: %s", string(raw))
	}
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

// ===== 值树 → JSON =====

// ValuesToJSON 将解码结果转换为便于序列化的形式
//
// 整数输出为十进制字符串，字节输出为 0x 十六进制，地址输出为校验和格式。
func ValuesToJSON(schema []types.SchemaNode, values []any) ([]any, error) {
	args, err := types.Arguments(schema)
	if err != nil {
		return nil, &types.DecodingError{Err: err}
	}
	if len(values) != len(args) {
		return nil, &types.DecodingError{
			Err: fmt.Errorf("value count mismatch: got %d for %d", len(values), len(args)),
		}
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = toJSON(args[i].Type, v)
	}
	return out, nil
}

func toJSON(t abi.Type, v any) any {
	switch t.T {
	case abi.TupleTy:
		children, _ := v.([]any)
		out := make([]any, len(children))
		for i, c := range children {
			out[i] = toJSON(*t.TupleElems[i], c)
		}
		return out

	case abi.SliceTy, abi.ArrayTy:
		if children, ok := v.([]any); ok {
			out := make([]any, len(children))
			for i, c := range children {
				out[i] = toJSON(*t.Elem, c)
			}
			return out
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = toJSON(*t.Elem, rv.Index(i).Interface())
		}
		return out

	case abi.AddressTy:
		if addr, ok := v.(common.Address); ok {
			return addr.Hex()
		}
		return v

	case abi.BytesTy:
		if b, ok := v.([]byte); ok {
			return hexutil.Encode(b)
		}
		return v

	case abi.FixedBytesTy:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Array {
			return v
		}
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return hexutil.Encode(b)

	case abi.IntTy, abi.UintTy:
		switch n := v.(type) {
		case *big.Int:
			return n.String()
		default:
			return fmt.Sprint(n)
		}

	default:
		return v
	}
}
