package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/prophet-sdk/internal/app"
)

// serveCommand prophet serve
func (c *cli) serveCommand() *cobra.Command {
	var (
		listen        string
		skipTemplates bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动只读 HTTP 网关",
		Long:  "启动 HTTP 网关，暴露 /api/v1 只读端点、/metrics 与健康检查，收到 SIGINT/SIGTERM 后优雅退出",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				c.config.HTTP.Listen = listen
			}
			opts := []app.Option{app.WithConfig(c.config), app.WithAPI()}
			if c.backend != nil {
				opts = append(opts, app.WithBackend(c.backend))
			}
			if skipTemplates {
				opts = append(opts, app.WithoutTemplates())
			}

			a, err := app.Start(opts...)
			if err != nil {
				return err
			}
			c.formatter.PrintSuccess("HTTP网关已启动: " + c.config.HTTP.Listen + "，按 Ctrl+C 停止")
			a.Wait()
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "监听地址 (覆盖 http.listen)")
	cmd.Flags().BoolVar(&skipTemplates, "no-batch", false, "不加载批量模板，批量端点返回 503")
	return cmd
}
