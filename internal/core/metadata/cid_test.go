package metadata

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes32ToCid(t *testing.T) {
	hash := common.HexToHash("0x4b47917f1b61e5395a767c7a9427aa695f5568cf7a7f259b92f468f8fcc4fbd2")
	expected := base58.Encode(append([]byte{0x12, 0x20}, hash.Bytes()...))

	cid := Bytes32ToCid(hash)
	assert.Equal(t, expected, cid)
	assert.Len(t, cid, 46)
	assert.True(t, IsIpfsCID(cid))
}

func TestCidRoundTrip(t *testing.T) {
	for _, hex := range []string{
		"0x0000000000000000000000000000000000000000000000000000000000000000",
		"0xecf0806d125a1e9cb75eeb7fddad839139910ae32d686a2c36d4fc669c5790a2",
		"0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	} {
		hash := common.HexToHash(hex)
		got, err := CidToBytes32(Bytes32ToCid(hash))
		require.NoError(t, err)
		assert.Equal(t, hash, got)
	}
}

func TestCidToBytes32Invalid(t *testing.T) {
	tests := []struct {
		name string
		cid  string
	}{
		{"非base58字符", "Qm0OIl"},
		{"空字符串", ""},
		{"摘要长度错误", base58.Encode([]byte{0x12, 0x04, 1, 2, 3, 4})},
		{"非sha2-256", base58.Encode(append([]byte{0x13, 0x20}, make([]byte, 32)...))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CidToBytes32(tt.cid)
			assert.ErrorIs(t, err, ErrInvalidCID)
		})
	}
}

func TestIsIpfsCID(t *testing.T) {
	for _, cid := range []string{
		"QmABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstu",
		"bafyabcdefg1234567890",
		"bafkabcdefg1234567890",
	} {
		assert.True(t, IsIpfsCID(cid), cid)
	}
	for _, cid := range []string{
		"QrABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstu",
		"bafr0123456789",
		"bafqabcdefghi",
	} {
		assert.False(t, IsIpfsCID(cid), cid)
	}
}

func TestIsIpfsURI(t *testing.T) {
	assert.True(t, IsIpfsURI("ipfs://QmABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstu"))
	assert.True(t, IsIpfsURI("ipfs://bafkabcdefg1234567890"))
	assert.False(t, IsIpfsURI("https://example.com"))
	assert.False(t, IsIpfsURI("ipfs://"))
	assert.False(t, IsIpfsURI("ipfs://qrte1234567890"))
}
