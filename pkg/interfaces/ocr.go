package interfaces

import (
	"context"

	"ocr-refine/pkg/types"
)

// Recognizer extracts text and confidence information from an image file.
type Recognizer interface {
	// Recognize runs OCR on the image at path and returns the assembled
	// recognition result. Fragments below the engine's confidence
	// threshold are dropped before assembly.
	Recognize(ctx context.Context, path string) (*types.RecognitionResult, error)

	// Name returns the name of the recognition backend
	Name() string
}

// Corrector rewrites recognized text to repair OCR artifacts.
type Corrector interface {
	// Correct sends text to the correction model. It never fails hard:
	// on any error the result carries Success=false and the original
	// text as CorrectedText.
	Correct(ctx context.Context, text string) types.CorrectionResult

	// Ping checks whether the correction server is reachable
	Ping(ctx context.Context) error
}
