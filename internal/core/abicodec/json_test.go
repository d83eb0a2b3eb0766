package abicodec

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

func TestValuesFromJSON(t *testing.T) {
	schema := []types.SchemaNode{
		types.Leaf("string", "url"),
		types.Leaf("uint256", "amount"),
		types.Tuple(types.TupleType, "opts",
			types.Leaf("address", "to"),
			types.Leaf("uint8", "decimals"),
			types.Leaf("bytes4", "selector"),
			types.Leaf("bool", "strict"),
		),
	}
	raw := `["https://x", "0x10", ["0x00000000000000000000000000000000000000aa", 18, "0xdeadbeef", true]]`

	values, err := ValuesFromJSON(schema, []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, []any{
		"https://x",
		big.NewInt(16),
		[]any{
			common.HexToAddress("0x00000000000000000000000000000000000000aa"),
			uint8(18),
			[4]byte{0xde, 0xad, 0xbe, 0xef},
			true,
		},
	}, values)

	_, err = Encode(schema, values)
	require.NoError(t, err)
}

func TestValuesFromJSONErrors(t *testing.T) {
	schema := []types.SchemaNode{types.Leaf("uint8", ""), types.Leaf("address", "")}

	tests := []struct {
		name string
		raw  string
	}{
		{"not array", `{"a":1}`},
		{"arity", `[1]`},
		{"overflow", `[256, "0x00000000000000000000000000000000000000aa"]`},
		{"negative", `[-1, "0x00000000000000000000000000000000000000aa"]`},
		{"bad address", `[1, "0xDEAD"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValuesFromJSON(schema, []byte(tt.raw))
			assert.ErrorIs(t, err, types.ErrEncoding)
		})
	}
}

func TestValuesToJSON(t *testing.T) {
	schema := nestedSchema()

	out, err := ValuesToJSON(schema, nestedValues())
	require.NoError(t, err)

	word := func(first byte) string {
		var b [32]byte
		b[0] = first
		return hexutil.Encode(b[:])
	}
	assert.Equal(t, []any{
		"https://api.example.org/price",
		[]any{
			common.HexToAddress("0x00000000000000000000000000000000000000aa").Hex(),
			[]any{
				[]any{"7", word(1)},
				[]any{"8", word(2)},
			},
			"3",
		},
		[]any{"1", "2"},
	}, out)

	_, err = json.Marshal(out)
	require.NoError(t, err)
}
