package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"ocr-refine/pkg/config"
	"ocr-refine/pkg/constants"
	"ocr-refine/pkg/interfaces"
	"ocr-refine/pkg/logger"
	"ocr-refine/pkg/types"
	"ocr-refine/pkg/utils"
)

// Pipeline runs recognition and correction over images and persists the
// results. Batch processing is strictly sequential; one image is fully
// processed before the next begins.
type Pipeline struct {
	config     *config.Config
	logger     *logger.Logger
	recognizer interfaces.Recognizer
	corrector  interfaces.Corrector
}

// BatchSummary aggregates the outcome of one batch run.
type BatchSummary struct {
	Records     []*types.ProcessingRecord
	Succeeded   int
	Failed      int
	SummaryPath string
}

// New creates a pipeline from its collaborators.
func New(cfg *config.Config, log *logger.Logger, recognizer interfaces.Recognizer, corrector interfaces.Corrector) *Pipeline {
	if log == nil {
		log = logger.DefaultLogger()
	}
	return &Pipeline{
		config:     cfg,
		logger:     log,
		recognizer: recognizer,
		corrector:  corrector,
	}
}

// ProcessImage runs both stages over a single image and assembles the
// record. A recognition failure produces a record holding only the
// filename and error; a correction failure degrades to the raw text and
// is captured in the record, never raised.
func (p *Pipeline) ProcessImage(ctx context.Context, path string) *types.ProcessingRecord {
	return p.ProcessImageWithProgress(ctx, path, nil)
}

// ProcessImageWithProgress is ProcessImage with milestone callbacks for
// interactive front ends. progress may be nil.
func (p *Pipeline) ProcessImageWithProgress(ctx context.Context, path string, progress func(Stage)) *types.ProcessingRecord {
	filename := filepath.Base(path)
	p.logger.ProgressAlways("🖼️", "Processing %s", filename)

	notify(progress, StageRecognizing)
	recognition, err := p.recognizer.Recognize(ctx, path)
	if err != nil {
		p.logger.Error("Recognition failed for %s: %v", filename, err)
		return types.NewFailedRecord(filename, err)
	}
	p.logger.Progress("🔍", "Recognition done (confidence %.2f, %d words)",
		recognition.AverageConfidence, recognition.WordCount)

	var correction *types.CorrectionResult
	if !p.config.SkipCorrection {
		notify(progress, StageCorrecting)
		result := p.corrector.Correct(ctx, recognition.FullText)
		if result.Success {
			p.logger.Progress("✨", "Correction done")
		} else {
			p.logger.Warn("Correction failed for %s: %s (keeping raw text)",
				filename, result.Error)
		}
		correction = &result
	}

	return types.NewRecord(filename, recognition, correction)
}

// RunBatch processes every supported image in dir in sorted order,
// persists per-image artifacts and the batch summary, and logs success
// and failure counts. A single file's failure never aborts the batch.
func (p *Pipeline) RunBatch(ctx context.Context, dir string) (*BatchSummary, error) {
	files, err := utils.ListImageFiles(dir)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{}
	if len(files) == 0 {
		p.logger.Warn("No image files found in %s", dir)
		return summary, nil
	}

	if err := utils.EnsureDir(p.config.OutputDir); err != nil {
		return nil, err
	}

	p.logger.Info("Found %d image files", len(files))

	for i, file := range files {
		p.logger.ProgressAlways("📄", "[%d/%d]", i+1, len(files))
		record := p.ProcessImage(ctx, file)
		summary.Records = append(summary.Records, record)

		if record.Failed() {
			summary.Failed++
			continue
		}
		summary.Succeeded++

		if err := p.saveRecord(record, utils.BaseStem(file)); err != nil {
			p.logger.Error("Failed to save results for %s: %v", record.Filename, err)
		}
	}

	summaryPath, err := p.writeSummary(summary.Records)
	if err != nil {
		return summary, err
	}
	summary.SummaryPath = summaryPath

	p.logger.Info("=== Batch complete ===")
	p.logger.Info("Processed %d files: %d succeeded, %d failed",
		len(files), summary.Succeeded, summary.Failed)

	return summary, nil
}

// saveRecord writes the per-image artifacts the configuration asks for.
func (p *Pipeline) saveRecord(record *types.ProcessingRecord, stem string) error {
	if p.config.SaveJSONResult {
		path := filepath.Join(p.config.OutputDir, stem+constants.ResultFileSuffix)
		if err := writeJSON(path, record); err != nil {
			return err
		}
		p.logger.Progress("💾", "Saved JSON result: %s", path)
	}

	if p.config.SaveRawText && record.OCR != nil {
		path := filepath.Join(p.config.OutputDir, stem+constants.RawTextFileSuffix)
		if err := utils.WriteTextFile(path, record.OCR.RawText); err != nil {
			return err
		}
		p.logger.Progress("💾", "Saved raw text: %s", path)
	}

	if p.config.SaveCorrectedText && record.Correction != nil {
		path := filepath.Join(p.config.OutputDir, stem+constants.CorrectedFileSuffix)
		if err := utils.WriteTextFile(path, record.Correction.CorrectedText); err != nil {
			return err
		}
		p.logger.Progress("💾", "Saved corrected text: %s", path)
	}

	return nil
}

// writeSummary persists the full record list, stamped with the run time.
func (p *Pipeline) writeSummary(records []*types.ProcessingRecord) (string, error) {
	name := fmt.Sprintf("%s%s.json", constants.SummaryFilePrefix,
		time.Now().Format(constants.RunTimestampLayout))
	path := filepath.Join(p.config.OutputDir, name)
	if err := writeJSON(path, records); err != nil {
		return "", err
	}
	p.logger.Info("Batch summary saved: %s", path)
	return path, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "cannot encode result")
	}
	return utils.WriteTextFile(path, string(data))
}

func notify(progress func(Stage), stage Stage) {
	if progress != nil {
		progress(stage)
	}
}
