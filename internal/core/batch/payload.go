package batch

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// BuildPayload 拼接模板字节与 ABI 编码的构造参数
//
// 模板的 0x 前缀已在十六进制解码时去除，编码参数原样追加在模板之后。
func BuildPayload(template []byte, args abi.Arguments, values ...any) ([]byte, error) {
	encoded, err := args.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("pack arguments: %w", err)
	}
	payload := make([]byte, 0, len(template)+len(encoded))
	payload = append(payload, template...)
	payload = append(payload, encoded...)
	return payload, nil
}
