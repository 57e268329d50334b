package ocr

import (
	"strings"
	"testing"

	"ocr-refine/pkg/types"
)

func frag(text string, confidence float64, y int) types.Fragment {
	return types.Fragment{Text: text, Confidence: confidence, Y: y}
}

func TestBuildResultWordCountMatchesRetained(t *testing.T) {
	tests := []struct {
		name      string
		fragments []types.Fragment
		threshold float64
		want      int
	}{
		{
			name:      "all retained",
			fragments: []types.Fragment{frag("a", 0.9, 0), frag("b", 0.8, 0)},
			threshold: 0.5,
			want:      2,
		},
		{
			name:      "some filtered",
			fragments: []types.Fragment{frag("a", 0.9, 0), frag("b", 0.3, 0), frag("c", 0.6, 0)},
			threshold: 0.5,
			want:      2,
		},
		{
			name:      "boundary confidence is retained",
			fragments: []types.Fragment{frag("a", 0.5, 0)},
			threshold: 0.5,
			want:      1,
		},
		{
			name:      "no fragments",
			fragments: nil,
			threshold: 0.5,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildResult(tt.fragments, tt.threshold)
			if result.WordCount != tt.want {
				t.Errorf("WordCount = %d, want %d", result.WordCount, tt.want)
			}
		})
	}
}

func TestBuildResultAllBelowThreshold(t *testing.T) {
	fragments := []types.Fragment{
		frag("low", 0.1, 10),
		frag("lower", 0.2, 40),
	}

	result := BuildResult(fragments, 0.5)

	if result.FullText != "" {
		t.Errorf("FullText = %q, want empty", result.FullText)
	}
	if result.AverageConfidence != 0.0 {
		t.Errorf("AverageConfidence = %v, want 0.0", result.AverageConfidence)
	}
	if result.WordCount != 0 {
		t.Errorf("WordCount = %d, want 0", result.WordCount)
	}
	if len(result.Lines) != 0 {
		t.Errorf("Lines = %v, want none", result.Lines)
	}
}

func TestBuildResultTwoLines(t *testing.T) {
	fragments := []types.Fragment{
		{Text: "Hello", Confidence: 0.9, X: 10, Y: 10},
		{Text: "World", Confidence: 0.8, X: 10, Y: 40},
	}

	result := BuildResult(fragments, 0.5)

	if result.FullText != "Hello\nWorld" {
		t.Errorf("FullText = %q, want %q", result.FullText, "Hello\nWorld")
	}
	if got := result.AverageConfidence; got < 0.849 || got > 0.851 {
		t.Errorf("AverageConfidence = %v, want 0.85", got)
	}
	if result.WordCount != 2 {
		t.Errorf("WordCount = %d, want 2", result.WordCount)
	}
}

func TestBuildResultGroupsNearbyFragmentsIntoOneLine(t *testing.T) {
	fragments := []types.Fragment{
		frag("quick", 0.9, 12),
		frag("The", 0.9, 10),
		frag("fox", 0.9, 18),
		frag("jumps", 0.9, 45),
	}

	result := BuildResult(fragments, 0.5)

	if len(result.Lines) != 2 {
		t.Fatalf("Lines = %v, want 2 lines", result.Lines)
	}
	// Within a line the vertical sort order is kept
	if result.Lines[0] != "The quick fox" {
		t.Errorf("first line = %q, want %q", result.Lines[0], "The quick fox")
	}
	if result.Lines[1] != "jumps" {
		t.Errorf("second line = %q, want %q", result.Lines[1], "jumps")
	}
}

func TestBuildResultUnsortedInput(t *testing.T) {
	fragments := []types.Fragment{
		frag("third", 0.9, 100),
		frag("first", 0.9, 10),
		frag("second", 0.9, 50),
	}

	result := BuildResult(fragments, 0.5)

	want := "first\nsecond\nthird"
	if result.FullText != want {
		t.Errorf("FullText = %q, want %q", result.FullText, want)
	}
}

func TestBuildResultExactToleranceStaysOnLine(t *testing.T) {
	// 10px difference is within tolerance; 11px starts a new line
	fragments := []types.Fragment{
		frag("a", 0.9, 0),
		frag("b", 0.9, 10),
		frag("c", 0.9, 21),
	}

	result := BuildResult(fragments, 0.5)

	if len(result.Lines) != 2 {
		t.Fatalf("Lines = %v, want 2 lines", result.Lines)
	}
	if result.Lines[0] != "a b" {
		t.Errorf("first line = %q, want %q", result.Lines[0], "a b")
	}
}

func TestBuildResultFilteredFragmentsDoNotAffectLines(t *testing.T) {
	fragments := []types.Fragment{
		frag("keep", 0.9, 10),
		frag("drop", 0.1, 10),
		frag("keep2", 0.9, 40),
	}

	result := BuildResult(fragments, 0.5)

	if strings.Contains(result.FullText, "drop") {
		t.Errorf("FullText %q contains filtered fragment", result.FullText)
	}
	if result.WordCount != 2 {
		t.Errorf("WordCount = %d, want 2", result.WordCount)
	}
}
