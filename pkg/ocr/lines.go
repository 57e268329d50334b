package ocr

import (
	"sort"
	"strings"

	"ocr-refine/pkg/constants"
	"ocr-refine/pkg/types"
)

// BuildResult filters fragments by confidence and assembles the final
// recognition result. Fragments whose confidence is below threshold are
// dropped; the survivors are grouped into lines by vertical position.
//
// An input that leaves no fragments after filtering is not an error: the
// result is simply empty with zero confidence and word count.
func BuildResult(fragments []types.Fragment, threshold float64) *types.RecognitionResult {
	retained := make([]types.Fragment, 0, len(fragments))
	var confidenceSum float64
	for _, frag := range fragments {
		if frag.Confidence < threshold {
			continue
		}
		retained = append(retained, frag)
		confidenceSum += frag.Confidence
	}

	if len(retained) == 0 {
		return &types.RecognitionResult{}
	}

	lines := groupLines(retained, constants.LineGroupingTolerance)

	return &types.RecognitionResult{
		FullText:          strings.Join(lines, "\n"),
		Lines:             lines,
		AverageConfidence: confidenceSum / float64(len(retained)),
		WordCount:         len(retained),
	}
}

// groupLines reconstructs text lines from fragments. Fragments are sorted
// by the top edge of their bounding box; a new line starts whenever a
// fragment's Y drifts more than tolerance pixels from the first fragment
// of the current line. Words within a line keep their sorted order and are
// joined by single spaces.
func groupLines(fragments []types.Fragment, tolerance int) []string {
	sorted := make([]types.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y < sorted[j].Y
	})

	var lines []string
	var current []string
	referenceY := sorted[0].Y

	for _, frag := range sorted {
		if frag.Y-referenceY > tolerance {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
			referenceY = frag.Y
		}
		current = append(current, frag.Text)
	}
	lines = append(lines, strings.Join(current, " "))

	return lines
}
