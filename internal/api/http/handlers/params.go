package handlers

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/weisyn/prophet-sdk/internal/api/http/middleware"
	apitypes "github.com/weisyn/prophet-sdk/internal/api/http/types"
)

// 单次范围查询的上限
const maxBatchCount = 1000

func addressParam(c *gin.Context, name string) (common.Address, error) {
	raw := c.Param(name)
	if !common.IsHexAddress(raw) {
		return common.Address{}, apitypes.InvalidArgument("invalid address %q", raw)
	}
	return common.HexToAddress(raw), nil
}

func hashParam(c *gin.Context, name string) (common.Hash, error) {
	raw := c.Param(name)
	b, err := hexutil.Decode(raw)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, apitypes.InvalidArgument("invalid bytes32 %q", raw)
	}
	return common.BytesToHash(b), nil
}

// rangeQuery 解析 ?start=&count=
func rangeQuery(c *gin.Context) (uint64, uint64, error) {
	start, err := strconv.ParseUint(c.DefaultQuery("start", "0"), 10, 64)
	if err != nil {
		return 0, 0, apitypes.InvalidArgument("invalid start %q", c.Query("start"))
	}
	count, err := strconv.ParseUint(c.DefaultQuery("count", "100"), 10, 64)
	if err != nil {
		return 0, 0, apitypes.InvalidArgument("invalid count %q", c.Query("count"))
	}
	if count > maxBatchCount {
		return 0, 0, apitypes.InvalidArgument("count must not exceed %d", maxBatchCount)
	}
	return start, count, nil
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, apitypes.NewSuccessResponse(data, middleware.GetRequestID(c)))
}

// fail 登记错误，由 ErrorHandler 统一输出
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
