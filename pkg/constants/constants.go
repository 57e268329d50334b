package constants

import "time"

// Application constants
const (
	AppName = "ocr-refine"
	// Note: AppVersion is managed via build-time ldflags injection in main.go
)

// File processing constants
const (
	// Default file permissions
	DefaultFilePermission = 0644
	DefaultDirPermission  = 0755

	// Artifact file name suffixes
	ResultFileSuffix    = "_result.json"
	RawTextFileSuffix   = "_raw.txt"
	CorrectedFileSuffix = "_corrected.txt"
	SummaryFilePrefix   = "batch_result_"

	// Timestamp layout used to stamp batch summary filenames
	RunTimestampLayout = "20060102_150405"
)

// OCR constants
const (
	// DefaultConfidenceThreshold drops fragments the recognizer is not
	// sure about before any text is assembled.
	DefaultConfidenceThreshold = 0.5

	// LineGroupingTolerance is the vertical distance in pixels within
	// which fragments are considered part of the same text line.
	LineGroupingTolerance = 10

	// DefaultOCRLanguages is the tesseract language spec (joined with +).
	DefaultOCRLanguages = "kor+eng"
)

// Correction constants
const (
	DefaultOllamaHost        = "http://localhost:11434"
	DefaultOllamaModel       = "mistral"
	DefaultMaxRetries        = 3
	DefaultTemperature       = 0.3
	DefaultRetryDelay        = 1 * time.Second
	DefaultCorrectionTimeout = 120 * time.Second
	DefaultPingTimeout       = 2 * time.Second
)

// Directory defaults (relative to the working directory)
const (
	DefaultImagesDir = "images"
	DefaultOutputDir = "output"
)

// SupportedImageExtensions lists the file extensions the batch scanner
// picks up, lowercase with leading dot.
var SupportedImageExtensions = []string{
	".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff",
}

// IsSupportedImage reports whether ext (with leading dot, any case
// handled by the caller) is a recognized image extension.
func IsSupportedImage(ext string) bool {
	for _, supported := range SupportedImageExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
