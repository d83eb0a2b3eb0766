package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DisputeStatus 争议状态，与注册表合约的枚举顺序一致
type DisputeStatus uint8

const (
	DisputeStatusNone DisputeStatus = iota
	DisputeStatusActive
	DisputeStatusWon
	DisputeStatusLost
)

// String 返回状态名称
func (s DisputeStatus) String() string {
	switch s {
	case DisputeStatusNone:
		return "None"
	case DisputeStatusActive:
		return "Active"
	case DisputeStatusWon:
		return "Won"
	case DisputeStatusLost:
		return "Lost"
	default:
		return "Unknown"
	}
}

// ===== 批量请求 =====

// RequestResponse 请求记录中的响应摘要
type RequestResponse struct {
	ResponseID common.Hash `json:"responseId"`
	CreatedAt  *big.Int    `json:"createdAt"`
	DisputeID  common.Hash `json:"disputeId"`
}

// RequestRecord 批量请求查询的一条记录
type RequestRecord struct {
	RequestID           common.Hash       `json:"requestId"`
	Responses           []RequestResponse `json:"responses"`
	FinalizedResponseID common.Hash       `json:"finalizedResponseId"`
	DisputeStatus       DisputeStatus     `json:"disputeStatus"`
}

// ===== 批量响应 =====

// ResponseRecord 某个请求下的一条响应
type ResponseRecord struct {
	CreatedAt *big.Int       `json:"createdAt"`
	Proposer  common.Address `json:"proposer"`
	RequestID common.Hash    `json:"requestId"`
	DisputeID common.Hash    `json:"disputeId"`
	Response  hexutil.Bytes  `json:"response"`
}

// ===== 批量争议 =====

// DisputeEntry 争议记录中的单个争议
type DisputeEntry struct {
	DisputeID         common.Hash   `json:"disputeId"`
	ResponseID        common.Hash   `json:"responseId"`
	DisputeCreatedAt  *big.Int      `json:"disputeCreatedAt"`
	ResponseCreatedAt *big.Int      `json:"responseCreatedAt"`
	Status            DisputeStatus `json:"status"`
}

// DisputeRecord 批量争议查询的一条记录
type DisputeRecord struct {
	RequestID        common.Hash    `json:"requestId"`
	RequestCreatedAt *big.Int       `json:"requestCreatedAt"`
	IsFinalized      bool           `json:"isFinalized"`
	Disputes         []DisputeEntry `json:"disputes"`
}

// ===== 批量待终结请求 =====

// FinalizeResponse 待终结请求下的响应
type FinalizeResponse struct {
	ResponseID        common.Hash `json:"responseId"`
	ResponseCreatedAt *big.Int    `json:"responseCreatedAt"`
}

// RequestForFinalizeRecord 批量待终结请求查询的一条记录
type RequestForFinalizeRecord struct {
	RequestID   common.Hash        `json:"requestId"`
	FinalizedAt *big.Int           `json:"finalizedAt"`
	Responses   []FinalizeResponse `json:"responses"`
}

// IsFinalized 是否已终结（finalizedAt 非零）
func (r RequestForFinalizeRecord) IsFinalized() bool {
	return r.FinalizedAt != nil && r.FinalizedAt.Sign() > 0
}

// ===== 批量模块名 =====

// ModuleNameRecord 模块地址与其名称，顺序与查询地址一致
type ModuleNameRecord struct {
	Module common.Address `json:"module"`
	Name   string         `json:"name"`
}
