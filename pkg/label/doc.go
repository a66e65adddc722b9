// Package label defines the data model shared by the label prioritizer and
// the placement engine.
//
// # Overview
//
// A chart that shows data labels runs two steps per render:
//
//  1. [prioritize] orders the label-eligible points of a series so the most
//     important ones come first.
//  2. [placement] walks that order and finds a non-overlapping rectangle for
//     each label, producing one [Record] per attempted [Candidate].
//
// Nothing here persists between renders. Candidates and records are plain
// values rebuilt from scratch for every pass.
//
// # Positions
//
// A [Candidate] lists the [Position] kinds it may use in preference order.
// [Center] requires the label to fit inside its anchor shape; every other
// position only uses containment to pick the fill colour.
//
// [prioritize]: github.com/matzehuels/datalabels/pkg/label/prioritize
// [placement]: github.com/matzehuels/datalabels/pkg/label/placement
package label
