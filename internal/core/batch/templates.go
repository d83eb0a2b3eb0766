package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Templates 一组带版本的批量模板字节码
type Templates struct {
	version string
	code    map[Kind][]byte
}

// NewTemplates 创建模板集合，必须覆盖全部批量类型
func NewTemplates(version string, code map[Kind][]byte) (*Templates, error) {
	t := &Templates{version: version, code: make(map[Kind][]byte, len(AllKinds))}
	for _, k := range AllKinds {
		c := code[k]
		if len(c) == 0 {
			return nil, fmt.Errorf("template %s (%s) is missing", k, k.Artifact())
		}
		t.code[k] = append([]byte(nil), c...)
	}
	return t, nil
}

// LoadTemplates 从编译产物目录加载模板
//
// 文件路径为 <dir>/<version>/<Artifact>.json，version 为空时直接使用 dir。
// 产物中的 bytecode 字段可以是 "0x..." 字符串，也可以是 {"object": "0x..."}。
func LoadTemplates(dir, version string) (*Templates, error) {
	base := dir
	if version != "" {
		base = filepath.Join(dir, version)
	}

	code := make(map[Kind][]byte, len(AllKinds))
	for _, k := range AllKinds {
		path := filepath.Join(base, k.Artifact()+".json")
		//nolint:gosec // G304: 模板目录来自配置
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", k, err)
		}
		b, err := parseArtifactBytecode(data)
		if err != nil {
			return nil, fmt.Errorf("template %s (%s): %w", k, path, err)
		}
		code[k] = b
	}
	return NewTemplates(version, code)
}

type artifact struct {
	Bytecode json.RawMessage `json:"bytecode"`
}

func parseArtifactBytecode(data []byte) ([]byte, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal artifact: %w", err)
	}
	raw := bytes.TrimSpace(a.Bytecode)
	if len(raw) == 0 {
		return nil, fmt.Errorf("artifact has no bytecode")
	}

	var hexCode string
	if raw[0] == '{' {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("unmarshal bytecode object: %w", err)
		}
		hexCode = obj.Object
	} else if err := json.Unmarshal(raw, &hexCode); err != nil {
		return nil, fmt.Errorf("unmarshal bytecode: %w", err)
	}

	code, err := hexutil.Decode(hexCode)
	if err != nil {
		return nil, fmt.Errorf("decode bytecode: %w", err)
	}
	return code, nil
}

// Version 模板版本
func (t *Templates) Version() string {
	return t.version
}

// Template 返回批量类型的模板字节（副本）
func (t *Templates) Template(k Kind) ([]byte, error) {
	c, ok := t.code[k]
	if !ok {
		return nil, fmt.Errorf("no template for batch kind %q", k)
	}
	return append([]byte(nil), c...), nil
}

// Digest 返回模板字节的 keccak256 摘要，用于核对部署的模板版本
func (t *Templates) Digest(k Kind) common.Hash {
	return crypto.Keccak256Hash(t.code[k])
}
