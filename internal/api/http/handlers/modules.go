package handlers

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	apitypes "github.com/weisyn/prophet-sdk/internal/api/http/types"
)

// 请求体上限
const maxBodySize = 1 << 20

// ModuleHandlers 模块 Schema 与编解码端点
type ModuleHandlers struct {
	svc Service
}

// NewModuleHandlers 创建模块处理器
func NewModuleHandlers(svc Service) *ModuleHandlers {
	return &ModuleHandlers{svc: svc}
}

// RegisterRoutes 注册 /modules 路由
func (h *ModuleHandlers) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/modules")
	g.GET("", h.List)
	g.GET("/:address/schema", h.Schema)
	g.GET("/:address/name", h.Name)
	g.POST("/:address/encode", h.Encode)
	g.POST("/:address/decode", h.Decode)
}

// List GET /modules
func (h *ModuleHandlers) List(c *gin.Context) {
	ok(c, h.svc.KnownModules())
}

// Schema GET /modules/:address/schema?named=true
func (h *ModuleHandlers) Schema(c *gin.Context) {
	addr, err := addressParam(c, "address")
	if err != nil {
		fail(c, err)
		return
	}
	named, _ := strconv.ParseBool(c.DefaultQuery("named", "false"))

	get := h.svc.GetDecodeRequestReturnTypes
	if named {
		get = h.svc.GetNamedDecodeRequestReturnTypes
	}
	schema, err := get(addr)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, schema)
}

// Name GET /modules/:address/name
func (h *ModuleHandlers) Name(c *gin.Context) {
	addr, err := addressParam(c, "address")
	if err != nil {
		fail(c, err)
		return
	}
	name, err := h.svc.ModuleName(c.Request.Context(), addr)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"module": addr, "name": name})
}

// Encode POST /modules/:address/encode，请求体为 JSON 值数组
func (h *ModuleHandlers) Encode(c *gin.Context) {
	addr, err := addressParam(c, "address")
	if err != nil {
		fail(c, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
	if err != nil {
		fail(c, apitypes.InvalidArgument("read body: %v", err))
		return
	}
	data, err := h.svc.EncodeRequestDataJSON(addr, body)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"data": hexutil.Bytes(data)})
}

type decodeRequest struct {
	Data hexutil.Bytes `json:"data"`
}

// Decode POST /modules/:address/decode，请求体为 {"data": "0x..."}
func (h *ModuleHandlers) Decode(c *gin.Context) {
	addr, err := addressParam(c, "address")
	if err != nil {
		fail(c, err)
		return
	}
	var req decodeRequest
	if err := json.NewDecoder(io.LimitReader(c.Request.Body, maxBodySize)).Decode(&req); err != nil {
		fail(c, apitypes.InvalidArgument("invalid request body: %v", err))
		return
	}
	values, err := h.svc.DecodeRequestDataJSON(addr, req.Data)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, values)
}
