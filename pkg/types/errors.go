package types

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// 错误分类哨兵，配合 errors.Is 使用
var (
	ErrModuleNotFound        = errors.New("module not found")
	ErrDecodeFunctionMissing = errors.New("decodeRequestData function missing")
	ErrEncoding              = errors.New("encoding error")
	ErrDecoding              = errors.New("decoding error")
	ErrBatchCall             = errors.New("batch call error")
)

// ModuleNotFoundError 注册表中不存在该模块
type ModuleNotFoundError struct {
	Address common.Address
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module %s not found", e.Address.Hex())
}

// Is 支持 errors.Is(err, ErrModuleNotFound)
func (e *ModuleNotFoundError) Is(target error) bool { return target == ErrModuleNotFound }

// DecodeFunctionMissingError 模块接口缺少 decodeRequestData 片段
type DecodeFunctionMissingError struct {
	Address common.Address
}

func (e *DecodeFunctionMissingError) Error() string {
	return fmt.Sprintf("module %s doesn't have a %s function", e.Address.Hex(), DecodeRequestDataFunction)
}

// Is 支持 errors.Is(err, ErrDecodeFunctionMissing)
func (e *DecodeFunctionMissingError) Is(target error) bool {
	return target == ErrDecodeFunctionMissing
}

// EncodingError 值树与 Schema 不匹配
// Err 为底层 ABI 编码器返回的原始错误
type EncodingError struct {
	Address common.Address
	Err     error
}

func (e *EncodingError) Error() string {
	if e.Address == (common.Address{}) {
		return fmt.Sprintf("encode: %v", e.Err)
	}
	return fmt.Sprintf("encode request data for %s: %v", e.Address.Hex(), e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Is 支持 errors.Is(err, ErrEncoding)
func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }

// DecodingError 字节与 Schema 不匹配
type DecodingError struct {
	Address common.Address
	Err     error
}

func (e *DecodingError) Error() string {
	if e.Address == (common.Address{}) {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode request data for %s: %v", e.Address.Hex(), e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// Is 支持 errors.Is(err, ErrDecoding)
func (e *DecodingError) Is(target error) bool { return target == ErrDecoding }

// BatchCallError 批量调用失败（传输失败、回执截断或解码失败）
// 整批失败，不返回部分结果
type BatchCallError struct {
	Kind  string
	Query string
	Err   error
}

func (e *BatchCallError) Error() string {
	return fmt.Sprintf("batch %s %s: %v", e.Kind, e.Query, e.Err)
}

func (e *BatchCallError) Unwrap() error { return e.Err }

// Is 支持 errors.Is(err, ErrBatchCall)
func (e *BatchCallError) Is(target error) bool { return target == ErrBatchCall }
