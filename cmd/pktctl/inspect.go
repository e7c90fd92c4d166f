package main

import (
	"fmt"
	"strings"

	"github.com/danmuck/pktdecode/internal/pipeline"
	"github.com/danmuck/pktdecode/internal/protocol/packet"
	"github.com/danmuck/pktdecode/internal/report"
	"github.com/spf13/cobra"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <hex>",
		Short: "Print the decoded packet tree of one transmission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			proc := pipeline.New(pipeline.Config{Workers: 1, Options: cfg.DecodeOptions(), KeepTree: true})
			res := proc.Process(pipeline.Input{Line: 1, Transmission: strings.TrimSpace(args[0])})

			out := cmd.OutOrStdout()
			if res.Packet != nil {
				fmt.Fprint(out, packet.Dump(res.Packet))
				fmt.Fprintf(out, "packets=%d depth=%d\n", res.Packets, packet.Depth(res.Packet))
			}
			fmt.Fprintln(out, report.Line(res))
			if !res.OK() {
				return fmt.Errorf("%w: %s", errLinesFailed, res.Stage)
			}
			return nil
		},
	}
}
