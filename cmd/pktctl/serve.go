package main

import (
	"github.com/danmuck/pktdecode/internal/config"
	"github.com/danmuck/pktdecode/internal/pipeline"
	"github.com/danmuck/pktdecode/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP decoder node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
				if err := config.ValidateServer(cfg.Server); err != nil {
					return err
				}
			}

			gin.SetMode(gin.ReleaseMode)
			proc := pipeline.New(pipeline.Config{
				Workers:  cfg.Workers,
				Options:  cfg.DecodeOptions(),
				KeepTree: true,
			})
			node := server.New(cfg.Server, proc)
			log.Info().Str("id", node.ID).Str("addr", node.Addr).Int("workers", cfg.Workers).Msg("starting decoder node")
			return node.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address override")
	return cmd
}
