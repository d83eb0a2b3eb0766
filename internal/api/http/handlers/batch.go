package handlers

import (
	"encoding/json"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	apitypes "github.com/weisyn/prophet-sdk/internal/api/http/types"
)

// BatchHandlers 批量读取端点
type BatchHandlers struct {
	svc Service
}

// NewBatchHandlers 创建批量处理器
func NewBatchHandlers(svc Service) *BatchHandlers {
	return &BatchHandlers{svc: svc}
}

// RegisterRoutes 注册 /batch 路由
func (h *BatchHandlers) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/batch")
	g.GET("/requests", h.Requests)
	g.GET("/requests/:requestId/responses", h.Responses)
	g.GET("/disputes", h.Disputes)
	g.GET("/finalize", h.RequestsForFinalize)
	g.POST("/module-names", h.ModuleNames)
}

// Requests GET /batch/requests?start=&count=
func (h *BatchHandlers) Requests(c *gin.Context) {
	start, count, err := rangeQuery(c)
	if err != nil {
		fail(c, err)
		return
	}
	records, err := h.svc.BatchRequests(c.Request.Context(), start, count)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, records)
}

// Responses GET /batch/requests/:requestId/responses
func (h *BatchHandlers) Responses(c *gin.Context) {
	id, err := hashParam(c, "requestId")
	if err != nil {
		fail(c, err)
		return
	}
	records, err := h.svc.BatchResponses(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, records)
}

// Disputes GET /batch/disputes?start=&count=
func (h *BatchHandlers) Disputes(c *gin.Context) {
	start, count, err := rangeQuery(c)
	if err != nil {
		fail(c, err)
		return
	}
	records, err := h.svc.BatchDisputes(c.Request.Context(), start, count)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, records)
}

// RequestsForFinalize GET /batch/finalize?start=&count=
func (h *BatchHandlers) RequestsForFinalize(c *gin.Context) {
	start, count, err := rangeQuery(c)
	if err != nil {
		fail(c, err)
		return
	}
	records, err := h.svc.BatchRequestsForFinalize(c.Request.Context(), start, count)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, records)
}

type moduleNamesRequest struct {
	Modules []common.Address `json:"modules"`
}

// ModuleNames POST /batch/module-names，请求体为 {"modules": ["0x..."]}
func (h *BatchHandlers) ModuleNames(c *gin.Context) {
	var req moduleNamesRequest
	if err := json.NewDecoder(io.LimitReader(c.Request.Body, maxBodySize)).Decode(&req); err != nil {
		fail(c, apitypes.InvalidArgument("invalid request body: %v", err))
		return
	}
	if len(req.Modules) > maxBatchCount {
		fail(c, apitypes.InvalidArgument("at most %d modules per call", maxBatchCount))
		return
	}
	records, err := h.svc.BatchModuleNames(c.Request.Context(), req.Modules)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, records)
}
