package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weisyn/prophet-sdk/client"
	apitypes "github.com/weisyn/prophet-sdk/internal/api/http/types"
	"github.com/weisyn/prophet-sdk/internal/core/metadata"
	"github.com/weisyn/prophet-sdk/pkg/types"
	"go.uber.org/zap"
)

// ErrorHandler 将处理器登记的错误转换为统一错误响应
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		apiErr := Classify(err)
		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("HTTP error",
				zap.String("code", apiErr.Code),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}

		message := apiErr.Message
		if message == "" {
			message = err.Error()
		}
		c.JSON(apiErr.Status, apitypes.ErrorResponse{
			Error: apitypes.ErrorDetail{
				Code:      apiErr.Code,
				Message:   message,
				RequestID: GetRequestID(c),
			},
		})
	}
}

// Classify 按错误类型确定状态码与错误码
func Classify(err error) *apitypes.APIError {
	var apiErr *apitypes.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	status, code := http.StatusInternalServerError, apitypes.ErrInternal
	switch {
	case errors.Is(err, types.ErrModuleNotFound):
		status, code = http.StatusNotFound, apitypes.ErrModuleNotFound
	case errors.Is(err, types.ErrDecodeFunctionMissing):
		status, code = http.StatusUnprocessableEntity, apitypes.ErrDecodeFunctionMissing
	case errors.Is(err, types.ErrEncoding):
		status, code = http.StatusBadRequest, apitypes.ErrEncoding
	case errors.Is(err, types.ErrDecoding):
		status, code = http.StatusBadRequest, apitypes.ErrDecoding
	case errors.Is(err, types.ErrBatchCall):
		status, code = http.StatusBadGateway, apitypes.ErrBatchCall
	case errors.Is(err, metadata.ErrAllGatewaysFailed):
		status, code = http.StatusBadGateway, apitypes.ErrMetadataUnavailable
	case errors.Is(err, client.ErrBatchUnavailable), errors.Is(err, client.ErrPinningUnavailable):
		status, code = http.StatusServiceUnavailable, apitypes.ErrServiceUnavailable
	case errors.Is(err, metadata.ErrInvalidCID):
		status, code = http.StatusBadRequest, apitypes.ErrInvalidArgument
	}
	return &apitypes.APIError{Status: status, Code: code, Err: err}
}
