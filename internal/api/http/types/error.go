package types

import (
	"fmt"
	"net/http"
)

// ErrorResponse 统一错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// 错误码
const (
	ErrInvalidArgument       = "INVALID_ARGUMENT"
	ErrNotFound              = "NOT_FOUND"
	ErrModuleNotFound        = "MODULE_NOT_FOUND"
	ErrDecodeFunctionMissing = "DECODE_FUNCTION_MISSING"
	ErrEncoding              = "ENCODING_ERROR"
	ErrDecoding              = "DECODING_ERROR"
	ErrBatchCall             = "BATCH_CALL_FAILED"
	ErrMetadataUnavailable   = "METADATA_UNAVAILABLE"
	ErrServiceUnavailable    = "SERVICE_UNAVAILABLE"
	ErrInternal              = "INTERNAL"
)

// APIError 处理器返回的带状态码错误
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// InvalidArgument 参数错误
func InvalidArgument(format string, args ...interface{}) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    ErrInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}
