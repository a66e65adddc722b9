package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/datalabels/pkg/client"
	"github.com/matzehuels/datalabels/pkg/config"
	"github.com/matzehuels/datalabels/pkg/label/sink"
	"github.com/matzehuels/datalabels/pkg/pipeline"
	"github.com/matzehuels/datalabels/pkg/scene"
)

// layoutCommand creates the layout command for placing labels.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		remote  string
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [scene]",
		Short: "Prioritize and place the labels of a scene",
		Long: `Prioritize and place the labels of a scene.

The layout command reads a scene (JSON or YAML), ranks the points of every
series, places up to twice the label budget per series and writes one record
per attempted label to <scene>.labels.json. Hidden records mark labels that
found no free position.

Results are cached locally for faster subsequent runs. With --remote the
layout is computed by a datalabels server instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], &flags, output, noCache, remote)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <scene>.labels.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&remote, "remote", "", "server URL to compute the layout on")
	flags.addLayoutFlags(cmd.Flags())

	return cmd
}

// runLayout loads the scene, places its labels and writes the records.
func (c *CLI) runLayout(ctx context.Context, input string, flags *optionFlags, output string, noCache bool, remote string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	sc, err := scene.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}
	opts := flags.apply(cfg.PipelineOptions())
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Placing labels...")
	spinner.Start()

	var (
		layout sink.Output
		cached bool
	)
	if remote != "" {
		layout, cached, err = c.remoteLayout(ctx, remote, sc, opts)
	} else {
		layout, cached, err = c.localLayout(ctx, cfg, sc, opts, noCache)
	}
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = scene.LabelsPath(input)
	}
	if err := scene.WriteLabelsFile(outputPath, layout); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(statsOf(sc, layout, cached))
	printNewline()
	printNextStep("Inspect", "datalabels inspect "+outputPath)

	return nil
}

func (c *CLI) localLayout(ctx context.Context, cfg config.Config, sc *scene.Scene, opts pipeline.Options, noCache bool) (sink.Output, bool, error) {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return sink.Output{}, false, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(c.Logger)
	layout, hit, err := runner.LayoutWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return sink.Output{}, false, err
	}
	p.done(fmt.Sprintf("Placed %d of %d labels", layout.Visible, len(layout.Records)))
	return layout, hit, nil
}

func (c *CLI) remoteLayout(ctx context.Context, url string, sc *scene.Scene, opts pipeline.Options) (sink.Output, bool, error) {
	cl, err := client.New(url, client.WithRetry(3, 500*time.Millisecond))
	if err != nil {
		return sink.Output{}, false, err
	}
	opts.Logger = nil
	opts.Formats = []string{pipeline.FormatJSON}
	resp, err := cl.Labels(ctx, sc, opts)
	if err != nil {
		return sink.Output{}, false, err
	}
	c.Logger.Debug("remote layout", "url", url, "scene", resp.SceneHash, "cached", resp.Cached)
	return resp.Layout, resp.Cached, nil
}
