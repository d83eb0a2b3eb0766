// Package version 记录 prophet-sdk 的构建信息
//
// Version、Commit、BuildTime 通过 -ldflags "-X ..." 注入；
// 未注入 Commit 时从模块构建信息中的 vcs.revision 读取。
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

var (
	Version   = "v0.1.0-dev"
	Commit    = ""
	BuildTime = ""

	// TemplatesVersion 随二进制发布的批量查询模板版本
	TemplatesVersion = "v1"
)

// BuildInfo 构建信息
type BuildInfo struct {
	Version          string `json:"version"`
	Commit           string `json:"commit,omitempty"`
	BuildTime        string `json:"build_time,omitempty"`
	TemplatesVersion string `json:"templates_version"`
	GoVersion        string `json:"go_version"`
	Platform         string `json:"platform"`
}

// GetVersion 获取版本号
func GetVersion() string {
	return Version
}

// GetBuildInfo 汇总构建信息
func GetBuildInfo() *BuildInfo {
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	return &BuildInfo{
		Version:          Version,
		Commit:           commit,
		BuildTime:        BuildTime,
		TemplatesVersion: TemplatesVersion,
		GoVersion:        runtime.Version(),
		Platform:         runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetFullVersion 多行文本格式，供 `prophet version -o text` 使用
func GetFullVersion() string {
	info := GetBuildInfo()

	var b strings.Builder
	fmt.Fprintf(&b, "prophet-sdk %s", info.Version)
	if info.Commit != "" {
		fmt.Fprintf(&b, " (%s)", shortCommit(info.Commit))
	}
	if info.BuildTime != "" {
		built := info.BuildTime
		if t, err := time.Parse(time.RFC3339, built); err == nil {
			built = t.UTC().Format("2006-01-02 15:04:05 MST")
		}
		fmt.Fprintf(&b, "\n构建时间: %s", built)
	}
	fmt.Fprintf(&b, "\n批量模板: %s", info.TemplatesVersion)
	fmt.Fprintf(&b, "\nGo版本: %s", info.GoVersion)
	fmt.Fprintf(&b, "\n平台: %s", info.Platform)
	return b.String()
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
