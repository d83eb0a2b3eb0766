package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

const pinJSONPath = "/pinning/pinJSONToIPFS"

// Pinner 上传元数据并返回其 CID 摘要
type Pinner interface {
	Pin(ctx context.Context, md types.RequestMetadata) (common.Hash, error)
}

// PinataPinner 通过 Pinata API 固定 JSON 内容
type PinataPinner struct {
	endpoint  string
	apiKey    string
	secretKey string
	client    *http.Client
}

var _ Pinner = (*PinataPinner)(nil)

// NewPinataPinner 创建 Pinata 客户端
func NewPinataPinner(endpoint, apiKey, secretKey string, timeout time.Duration) (*PinataPinner, error) {
	if apiKey == "" || secretKey == "" {
		return nil, errors.New("pinata api key and secret are required")
	}
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	return &PinataPinner{
		endpoint:  strings.TrimRight(endpoint, "/"),
		apiKey:    apiKey,
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

type pinJSONRequest struct {
	PinataContent types.RequestMetadata `json:"pinataContent"`
}

type pinJSONResponse struct {
	IpfsHash string `json:"IpfsHash"`
	PinSize  int64  `json:"PinSize"`
}

// Pin 上传元数据，返回可写入链上的 bytes32
//
// Pinata 对相同内容返回同一个 CID。
func (p *PinataPinner) Pin(ctx context.Context, md types.RequestMetadata) (common.Hash, error) {
	body, err := json.Marshal(pinJSONRequest{PinataContent: md})
	if err != nil {
		return common.Hash{}, fmt.Errorf("marshal metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+pinJSONPath, bytes.NewReader(body))
	if err != nil {
		return common.Hash{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("pinata_api_key", p.apiKey)
	req.Header.Set("pinata_secret_api_key", p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pin metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return common.Hash{}, fmt.Errorf("pin metadata: http %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result pinJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return common.Hash{}, fmt.Errorf("decode pin response: %w", err)
	}
	if !IsIpfsCID(result.IpfsHash) {
		return common.Hash{}, fmt.Errorf("%w: %q", ErrInvalidCID, result.IpfsHash)
	}
	return CidToBytes32(result.IpfsHash)
}
