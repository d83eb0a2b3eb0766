package main

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

// schemaCommand prophet schema <address>
func (c *cli) schemaCommand() *cobra.Command {
	var named bool
	cmd := &cobra.Command{
		Use:   "schema <module-address>",
		Short: "查询模块请求数据的 Schema",
		Long:  "输出模块 decodeRequestData 返回值的 Schema 树，默认为位置形式，--named 时保留字段名",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			cl, cleanup, err := c.newClient(cmd.Context(), clientOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			get := cl.GetDecodeRequestReturnTypes
			if named {
				get = cl.GetNamedDecodeRequestReturnTypes
			}
			schema, err := get(addr)
			if err != nil {
				return err
			}
			return c.formatter.Print(schema)
		},
	}
	cmd.Flags().BoolVar(&named, "named", false, "保留字段名")
	return cmd
}

type moduleInfo struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// modulesCommand prophet modules
func (c *cli) modulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "列出已知模块及其名称",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, cleanup, err := c.newClient(cmd.Context(), clientOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			known := cl.KnownModules()
			out := make([]moduleInfo, 0, len(known))
			for _, addr := range known {
				name, err := cl.ModuleName(cmd.Context(), addr)
				if err != nil {
					c.formatter.PrintWarning("读取模块名失败 " + addr.Hex() + ": " + err.Error())
					name = ""
				}
				out = append(out, moduleInfo{Address: addr.Hex(), Name: name})
			}
			return c.formatter.Print(out)
		},
	}
}

// encodeCommand prophet encode <address> <json-values>
func (c *cli) encodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <module-address> <json-values|->",
		Short: "按模块 Schema 编码请求数据",
		Long: `将 JSON 值数组编码为请求数据字节。

元组以数组表示，整数可用数字或十进制字符串，bytes 使用 0x 十六进制。
示例:
  prophet encode 0x... '[["https://api.example.com/price", "42"]]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			raw, err := readArg(cmd, args[1])
			if err != nil {
				return err
			}
			cl, cleanup, err := c.newClient(cmd.Context(), clientOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := cl.EncodeRequestDataJSON(addr, raw)
			if err != nil {
				return err
			}
			return c.formatter.Print(map[string]any{"data": hexutil.Bytes(data)})
		},
	}
}

// decodeCommand prophet decode <address> <hex>
func (c *cli) decodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <module-address> <hex-data|->",
		Short: "按模块 Schema 解码请求数据",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			raw, err := readArg(cmd, args[1])
			if err != nil {
				return err
			}
			data, err := hexutil.Decode(string(raw))
			if err != nil {
				return err
			}
			cl, cleanup, err := c.newClient(cmd.Context(), clientOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			values, err := cl.DecodeRequestDataJSON(addr, data)
			if err != nil {
				return err
			}
			return c.formatter.Print(values)
		},
	}
}
