// Package pkg holds the datalabels libraries.
//
// # Overview
//
// Datalabels decides which values of a chart series receive a text label
// and where each label goes, so that labels cover neither their anchor shape
// nor each other. The packages are organized in three layers:
//
//  1. Core: [geom], [label], label/prioritize, label/placement
//  2. Collaborators: label/measure, label/sink, [scene]
//  3. Orchestration and infrastructure: [pipeline], [cache], [config],
//     [server], [client], [observability], [errors], [buildinfo]
//
// # Data Flow
//
//	scene document (JSON/YAML)
//	         ↓
//	    [scene] candidates per series (text measured by label/measure)
//	         ↓
//	    label/prioritize (rank points, keep min(2k, n) per series)
//	         ↓
//	    label/placement (first free position per candidate)
//	         ↓
//	    label/sink (labels.json, SVG, PNG, PDF)
//
// # Quick Start
//
//	sc, _ := scene.ReadFile("sales.yaml")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(ctx, sc, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("sales.svg", result.Artifacts["svg"], 0o644)
//
// The core packages are pure functions with no I/O. Using them directly:
//
//	order := prioritize.Indices(values, 10, prioritize.Axis{Width: 640})
//	records := placement.Place(cands, label.Viewport{Width: 640, Height: 480}, geom.IdentityTransform())
package pkg
