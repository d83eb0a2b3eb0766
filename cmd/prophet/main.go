// Command prophet 是 prophet-sdk 的命令行客户端
//
// 提供模块 Schema 查询、请求数据编解码、批量读取、元数据查询与发布，
// 以及启动只读 HTTP 网关的 serve 子命令。
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newCLI().rootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
