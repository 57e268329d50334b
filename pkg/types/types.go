package types

import "time"

// Fragment is one recognized text region before line grouping.
// Confidence is normalized to the [0,1] range.
type Fragment struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"` // left edge of the bounding box
	Y          int     `json:"y"` // top edge of the bounding box
}

// RecognitionResult holds the OCR output for a single image.
// It is immutable once produced.
type RecognitionResult struct {
	// FullText is all retained fragments joined in reading order,
	// lines separated by newlines.
	FullText string `json:"full_text"`

	// Lines contains the reconstructed text lines in top-to-bottom order.
	Lines []string `json:"lines"`

	// AverageConfidence is the mean confidence of retained fragments,
	// 0.0 when nothing was retained.
	AverageConfidence float64 `json:"average_confidence"`

	// WordCount is the number of fragments retained after confidence
	// filtering.
	WordCount int `json:"word_count"`
}

// CorrectionResult is the outcome of one text correction attempt.
// When Success is false, CorrectedText always equals OriginalText so a
// consumer never loses the recognized text.
type CorrectionResult struct {
	OriginalText  string `json:"original_text"`
	CorrectedText string `json:"corrected_text"`
	Success       bool   `json:"success"`
	Model         string `json:"model,omitempty"`
	Error         string `json:"error,omitempty"`
}

// OCRReport is the recognition section of a persisted record.
type OCRReport struct {
	RawText    string  `json:"raw_text"`
	Confidence float64 `json:"confidence"`
	WordCount  int     `json:"word_count"`
}

// CorrectionReport is the correction section of a persisted record.
type CorrectionReport struct {
	CorrectedText string `json:"corrected_text"`
	Success       bool   `json:"success"`
	Model         string `json:"model"`
	Error         string `json:"error,omitempty"`
}

// ProcessingRecord is the persisted result of processing one image.
// A record that failed during recognition carries only Filename and Error.
type ProcessingRecord struct {
	Filename   string            `json:"filename"`
	Timestamp  string            `json:"timestamp,omitempty"`
	OCR        *OCRReport        `json:"ocr,omitempty"`
	Correction *CorrectionReport `json:"correction,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Failed reports whether the record represents a recognition failure.
func (r *ProcessingRecord) Failed() bool {
	return r.Error != ""
}

// NewRecord assembles a ProcessingRecord from both pipeline stages.
func NewRecord(filename string, rec *RecognitionResult, corr *CorrectionResult) *ProcessingRecord {
	record := &ProcessingRecord{
		Filename:  filename,
		Timestamp: time.Now().Format(time.RFC3339),
		OCR: &OCRReport{
			RawText:    rec.FullText,
			Confidence: rec.AverageConfidence,
			WordCount:  rec.WordCount,
		},
	}
	if corr != nil {
		record.Correction = &CorrectionReport{
			CorrectedText: corr.CorrectedText,
			Success:       corr.Success,
			Model:         corr.Model,
			Error:         corr.Error,
		}
	}
	return record
}

// NewFailedRecord builds the minimal record for an image whose recognition
// stage failed.
func NewFailedRecord(filename string, err error) *ProcessingRecord {
	return &ProcessingRecord{
		Filename: filename,
		Error:    err.Error(),
	}
}
