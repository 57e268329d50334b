package ocr

import (
	"context"
	"fmt"
	"os"

	"ocr-refine/pkg/interfaces"
	"ocr-refine/pkg/logger"
	"ocr-refine/pkg/types"
	"ocr-refine/pkg/utils"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Engine runs OCR through Tesseract and turns word-level bounding boxes
// into a line-structured RecognitionResult.
type Engine struct {
	languages []string
	threshold float64
	logger    *logger.Logger
}

// NewEngine creates a recognition engine. languages are tesseract language
// codes ("eng", "kor", ...); threshold is the minimum fragment confidence
// in [0,1] kept in the output.
func NewEngine(languages []string, threshold float64, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.DefaultLogger()
	}
	return &Engine{
		languages: languages,
		threshold: threshold,
		logger:    log,
	}
}

// Name returns the name of the recognition backend
func (e *Engine) Name() string {
	return "tesseract"
}

// Recognize extracts text from the image at path.
//
// It fails with a not_found error when the path does not exist, with a
// decode error when the bytes are not a decodable image, and passes
// recognizer failures through without retrying. A readable image that
// yields no confident fragments is a success with an empty result.
func (e *Engine) Recognize(ctx context.Context, path string) (*types.RecognitionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, utils.NewNotFoundError(fmt.Sprintf("image file not found: %s", path), err)
	}

	// Decode check up front so unreadable bytes fail with a clear error
	// instead of an opaque tesseract message.
	if _, err := imaging.Open(path); err != nil {
		return nil, utils.NewDecodeError(fmt.Sprintf("cannot decode image: %s", path), err)
	}

	e.logger.Debug("Running OCR on %s (languages: %v, threshold: %.2f)",
		path, e.languages, e.threshold)

	fragments, err := e.scan(path)
	if err != nil {
		return nil, err
	}

	result := BuildResult(fragments, e.threshold)

	e.logger.Debug("OCR finished: %d words retained, average confidence %.2f",
		result.WordCount, result.AverageConfidence)

	return result, nil
}

// scan collects word-level fragments from tesseract.
func (e *Engine) scan(path string) ([]types.Fragment, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return nil, utils.NewOCRError("failed to set OCR languages", err)
		}
	}

	if err := client.SetImage(path); err != nil {
		return nil, utils.NewOCRError("failed to load image into OCR engine", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, utils.NewOCRError("OCR recognition failed", err)
	}

	fragments := make([]types.Fragment, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		fragments = append(fragments, types.Fragment{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
		})
	}

	return fragments, nil
}

var _ interfaces.Recognizer = (*Engine)(nil)
