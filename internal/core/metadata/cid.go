package metadata

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multihash"
)

const ipfsScheme = "ipfs://"

// CidToBytes32 将 CIDv0（Qm...）转换为 32 字节摘要
//
// 只接受 sha2-256 且摘要长度为 32 的 multihash（前缀 0x12 0x20）。
func CidToBytes32(cid string) (common.Hash, error) {
	raw, err := base58.Decode(cid)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %s: %v", ErrInvalidCID, cid, err)
	}
	decoded, err := multihash.Decode(raw)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %s: %v", ErrInvalidCID, cid, err)
	}
	if decoded.Code != multihash.SHA2_256 || len(decoded.Digest) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: %s: unsupported multihash %s/%d", ErrInvalidCID, cid, decoded.Name, decoded.Length)
	}
	return common.BytesToHash(decoded.Digest), nil
}

// Bytes32ToCid 将 32 字节摘要还原为 CIDv0
func Bytes32ToCid(hash common.Hash) string {
	// 摘要长度固定为 32，编码不会失败
	mh, err := multihash.Encode(hash.Bytes(), multihash.SHA2_256)
	if err != nil {
		panic(err)
	}
	return base58.Encode(mh)
}

// IsIpfsCID 判断字符串是否形如 IPFS CID（v0 的 Qm 或 v1 的 bafy/bafk）
func IsIpfsCID(cid string) bool {
	return strings.HasPrefix(cid, "Qm") || strings.HasPrefix(cid, "bafy") || strings.HasPrefix(cid, "bafk")
}

// IsIpfsURI 判断是否为 ipfs://<cid>
func IsIpfsURI(uri string) bool {
	cid, ok := strings.CutPrefix(uri, ipfsScheme)
	return ok && IsIpfsCID(cid)
}
