package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/datalabels/pkg/config"
	"github.com/matzehuels/datalabels/pkg/observability"
	"github.com/matzehuels/datalabels/pkg/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the labelling pipeline over HTTP",
		Long: `Serve the labelling pipeline over HTTP.

Routes:
  GET  /healthz
  POST /v1/labels      layout plus optional SVG/PNG/PDF
  POST /v1/prioritize  priority order per series
  POST /v1/render      one artifact, ?format=svg|png|pdf|json

The [server] and [cache] sections of the config file apply; flags override
them. Use a Redis cache to share results between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("redis") {
				cfg.Cache.RedisURL = redisURL
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if cfg.Server.Addr == "" {
				cfg.Server.Addr = config.DefaultAddr
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if c.verbose {
				observability.NewLogHooks(c.Logger).Register()
				defer observability.Reset()
			}

			srv := server.New(runner, c.Logger, server.Config{
				RequestTimeout: cfg.Server.RequestTimeout.Duration,
				MaxBodyBytes:   cfg.Server.MaxBodyBytes,
				Defaults:       cfg.PipelineOptions(),
			})
			printInfo("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for a shared cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
