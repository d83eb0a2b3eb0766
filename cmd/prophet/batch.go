package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/weisyn/prophet-sdk/client"
)

// batchCommand prophet batch ...
func (c *cli) batchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "通过批量模板读取注册表数据",
		Long:  "每个子命令只发出一次只读调用，需要配置 templates.dir 与 registry_address",
	}
	cmd.AddCommand(
		c.batchRangeCommand("requests", "批量读取请求", func(r rangeRun) (any, error) {
			return r.cl.BatchRequests(r.cmd.Context(), r.start, r.count)
		}),
		c.batchResponsesCommand(),
		c.batchRangeCommand("disputes", "批量读取争议", func(r rangeRun) (any, error) {
			return r.cl.BatchDisputes(r.cmd.Context(), r.start, r.count)
		}),
		c.batchRangeCommand("finalize", "批量读取待终结请求", func(r rangeRun) (any, error) {
			return r.cl.BatchRequestsForFinalize(r.cmd.Context(), r.start, r.count)
		}),
		c.batchNamesCommand(),
	)
	return cmd
}

type rangeRun struct {
	cmd   *cobra.Command
	cl    *client.Client
	start uint64
	count uint64
}

func (c *cli) batchRangeCommand(use, short string, run func(rangeRun) (any, error)) *cobra.Command {
	var start, count uint64
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, cleanup, err := c.newClient(cmd.Context(), clientOptions{templates: true})
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := run(rangeRun{cmd: cmd, cl: cl, start: start, count: count})
			if err != nil {
				return err
			}
			return c.formatter.Print(records)
		},
	}
	cmd.Flags().Uint64Var(&start, "start", 0, "起始下标")
	cmd.Flags().Uint64Var(&count, "count", 100, "读取条数")
	return cmd
}

func (c *cli) batchResponsesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "responses <request-id>",
		Short: "批量读取某个请求的全部响应",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBytes32(args[0])
			if err != nil {
				return err
			}
			cl, cleanup, err := c.newClient(cmd.Context(), clientOptions{templates: true})
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := cl.BatchResponses(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.formatter.Print(records)
		},
	}
}

func (c *cli) batchNamesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "names <module-address>...",
		Short: "批量读取模块名",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs := make([]common.Address, len(args))
			for i, a := range args {
				addr, err := parseAddress(a)
				if err != nil {
					return err
				}
				addrs[i] = addr
			}
			cl, cleanup, err := c.newClient(cmd.Context(), clientOptions{templates: true})
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := cl.BatchModuleNames(cmd.Context(), addrs)
			if err != nil {
				return err
			}
			return c.formatter.Print(records)
		},
	}
}
