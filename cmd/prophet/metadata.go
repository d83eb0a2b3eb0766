package main

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/weisyn/prophet-sdk/internal/core/metadata"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// metadataCommand prophet metadata ...
func (c *cli) metadataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "请求元数据（IPFS）",
	}
	cmd.AddCommand(c.metadataGetCommand(), c.metadataCidCommand(), c.metadataPublishCommand())
	return cmd
}

type cidInfo struct {
	IpfsHash string `json:"ipfsHash"`
	CID      string `json:"cid"`
}

func (c *cli) metadataGetCommand() *cobra.Command {
	var gateways []string
	cmd := &cobra.Command{
		Use:   "get <ipfs-hash|cid>",
		Short: "读取请求元数据",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := parseBytes32(args[0])
			if err != nil {
				return err
			}
			cl, cleanup, err := c.newClient(cmd.Context(), clientOptions{cache: true})
			if err != nil {
				return err
			}
			defer cleanup()
			if len(gateways) > 0 {
				cl.AddAlternativeGateways(gateways)
			}

			md, err := cl.GetMetadata(cmd.Context(), hash)
			if err != nil {
				return err
			}
			return c.formatter.Print(md)
		},
	}
	cmd.Flags().StringSliceVar(&gateways, "gateway", nil, "追加的备用网关")
	return cmd
}

func (c *cli) metadataCidCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cid <ipfs-hash|cid>",
		Short: "在链上 bytes32 与 CIDv0 之间转换",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			hash, err := parseBytes32(args[0])
			if err != nil {
				return err
			}
			return c.formatter.Print(cidInfo{IpfsHash: hash.Hex(), CID: metadata.Bytes32ToCid(hash)})
		},
	}
}

func (c *cli) metadataPublishCommand() *cobra.Command {
	var (
		requestModule    string
		responseModule   string
		disputeModule    string
		resolutionModule string
		finalityModule   string
	)
	cmd := &cobra.Command{
		Use:   "publish <metadata.json|->",
		Short: "固定请求元数据并输出链上 bytes32",
		Long: `校验 responseType 与请求模块后，按已知模块的命名 Schema 填充 returnedTypes，
再通过 Pinata 固定。需要配置 PINATA_API_KEY 与 PINATA_SECRET_API_KEY。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readFileArg(cmd, args[0])
			if err != nil {
				return err
			}
			var md types.RequestMetadata
			if err := json.Unmarshal(raw, &md); err != nil {
				return fmt.Errorf("parse metadata: %w", err)
			}

			var mods types.RequestModules
			for _, f := range []struct {
				value string
				dst   *common.Address
			}{
				{requestModule, &mods.RequestModule},
				{responseModule, &mods.ResponseModule},
				{disputeModule, &mods.DisputeModule},
				{resolutionModule, &mods.ResolutionModule},
				{finalityModule, &mods.FinalityModule},
			} {
				if f.value == "" {
					continue
				}
				addr, err := parseAddress(f.value)
				if err != nil {
					return err
				}
				*f.dst = addr
			}

			cl, cleanup, err := c.newClient(cmd.Context(), clientOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			hash, err := cl.PublishMetadata(cmd.Context(), mods, md)
			if err != nil {
				return err
			}
			c.formatter.PrintSuccess("元数据已固定")
			return c.formatter.Print(cidInfo{IpfsHash: hash.Hex(), CID: metadata.Bytes32ToCid(hash)})
		},
	}
	f := cmd.Flags()
	f.StringVar(&requestModule, "request-module", "", "请求模块地址")
	f.StringVar(&responseModule, "response-module", "", "响应模块地址")
	f.StringVar(&disputeModule, "dispute-module", "", "争议模块地址")
	f.StringVar(&resolutionModule, "resolution-module", "", "裁决模块地址")
	f.StringVar(&finalityModule, "finality-module", "", "终结模块地址")
	return cmd
}
