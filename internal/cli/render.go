package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/datalabels/pkg/pipeline"
	"github.com/matzehuels/datalabels/pkg/scene"
)

// renderCommand creates the render command for generating labelled charts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Place labels and render the scene to SVG, PNG, PDF or JSON",
		Long: `Place labels and render the scene.

SVG is drawn natively. PNG and PDF are converted from the SVG with rsvg-convert,
which must be on PATH. JSON is the labels document written by 'layout'.

With one format, -o names the output file; with several it is the base path
and each format adds its own extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &flags, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.addLayoutFlags(cmd.Flags())
	flags.addRenderFlags(cmd.Flags())

	return cmd
}

// runRender runs the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, flags *optionFlags, output string, noCache bool) error {
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

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	p := newProgress(c.Logger)
	result, err := runner.Execute(ctx, sc, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	p.done(fmt.Sprintf("Rendered %s", strings.Join(slices.Sorted(maps.Keys(result.Artifacts)), ", ")))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(input, output, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(labelStats{
		series:    result.Stats.Series,
		points:    result.Stats.Points,
		attempted: result.Stats.Attempted,
		visible:   result.Stats.Visible,
		cached:    result.CacheInfo.LayoutHit,
	})
	return nil
}

// artifactPaths maps each format to its output file.
func artifactPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, f := range formats {
		if f == pipeline.FormatJSON {
			paths[f] = base + ".labels.json"
			continue
		}
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes every artifact and returns the paths in format order.
func writeArtifacts(input, output string, artifacts map[string][]byte) ([]string, error) {
	formats := slices.Sorted(maps.Keys(artifacts))
	targets := artifactPaths(input, output, formats)

	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := targets[f]
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
