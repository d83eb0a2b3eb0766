package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/weisyn/prophet-sdk/internal/core/metadata"
)

// MetadataHandlers 请求元数据端点
type MetadataHandlers struct {
	svc Service
}

// NewMetadataHandlers 创建元数据处理器
func NewMetadataHandlers(svc Service) *MetadataHandlers {
	return &MetadataHandlers{svc: svc}
}

// RegisterRoutes 注册 /metadata 路由
func (h *MetadataHandlers) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/metadata/:ipfsHash", h.Get)
}

// Get GET /metadata/:ipfsHash，ipfsHash 为链上 bytes32
func (h *MetadataHandlers) Get(c *gin.Context) {
	hash, err := hashParam(c, "ipfsHash")
	if err != nil {
		fail(c, err)
		return
	}
	md, err := h.svc.GetMetadata(c.Request.Context(), hash)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{
		"cid":      metadata.Bytes32ToCid(hash),
		"metadata": md,
	})
}
