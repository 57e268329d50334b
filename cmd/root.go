package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"ocr-refine/pkg/config"
	"ocr-refine/pkg/correct"
	"ocr-refine/pkg/logger"
	"ocr-refine/pkg/ocr"
	"ocr-refine/pkg/pipeline"
	"ocr-refine/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	imagesDir   string
	outputDir   string
	ollamaHost  string
	ollamaModel string
	languages   string
	threshold   float64
	skipCorrect bool
	verbose     bool
	showVersion bool
)

// AppHandler encapsulates application main processing logic
type AppHandler struct {
	config   *config.Config
	logger   *logger.Logger
	pipeline *pipeline.Pipeline
}

// NewAppHandler creates an application handler
func NewAppHandler() *AppHandler {
	return &AppHandler{}
}

// initialize loads configuration, applies overrides and wires the pipeline
func (h *AppHandler) initialize() error {
	h.config = config.LoadConfigWithEnvOverrides()
	h.applyCommandLineOverrides()

	if err := h.config.Validate(); err != nil {
		return err
	}

	h.logger = logger.NewLogger(h.config.LogLevel, h.config.EnableVerbose)

	recognizer := ocr.NewEngine(h.config.OCRLanguages, h.config.ConfidenceThreshold, h.logger)
	corrector := correct.NewClientFromConfig(h.config, h.logger)

	// Liveness probe only; a dead server degrades to raw text later.
	if !h.config.SkipCorrection {
		if err := corrector.Ping(context.Background()); err != nil {
			h.logger.Warn("Correction server is not reachable: %v", err)
			h.logger.Warn("1. Install Ollama: https://ollama.ai")
			h.logger.Warn("2. Start it: ollama serve")
			h.logger.Warn("3. Pull the model: ollama pull %s", h.config.OllamaModel)
		}
	}

	h.pipeline = pipeline.New(h.config, h.logger, recognizer, corrector)
	return nil
}

// applyCommandLineOverrides applies command line parameter overrides
func (h *AppHandler) applyCommandLineOverrides() {
	if imagesDir != "" {
		h.config.ImagesDir = imagesDir
	}
	if outputDir != "" {
		h.config.OutputDir = outputDir
	}
	if ollamaHost != "" {
		h.config.OllamaHost = ollamaHost
	}
	if ollamaModel != "" {
		h.config.OllamaModel = ollamaModel
	}
	if languages != "" {
		h.config.OCRLanguages = nil
		for _, lang := range strings.Split(languages, ",") {
			lang = strings.TrimSpace(lang)
			if lang != "" {
				h.config.OCRLanguages = append(h.config.OCRLanguages, lang)
			}
		}
	}
	if threshold >= 0 {
		h.config.ConfidenceThreshold = threshold
	}
	if skipCorrect {
		h.config.SkipCorrection = true
	}
	if verbose {
		h.config.EnableVerbose = true
	}
}

// ProcessFile processes a single image and prints its JSON record to stdout
func (h *AppHandler) ProcessFile(imagePath string) error {
	if err := h.initialize(); err != nil {
		return err
	}

	if !utils.FileExists(imagePath) {
		return utils.NewNotFoundError(fmt.Sprintf("file not found: %s", imagePath), nil)
	}

	record := h.pipeline.ProcessImage(context.Background(), imagePath)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// ProcessBatch processes every supported image in the configured directory
func (h *AppHandler) ProcessBatch() error {
	if err := h.initialize(); err != nil {
		return err
	}

	if err := utils.EnsureDir(h.config.ImagesDir); err != nil {
		return err
	}

	h.logger.Info("OCR languages: %s", h.config.TesseractLanguages())
	h.logger.Info("Correction model: %s", h.config.OllamaModel)
	h.logger.Info("Correction host: %s", h.config.OllamaHost)

	summary, err := h.pipeline.RunBatch(context.Background(), h.config.ImagesDir)
	if err != nil {
		return err
	}

	if len(summary.Records) > 0 {
		h.logger.ProgressAlways("✅", "%d succeeded, %d failed", summary.Succeeded, summary.Failed)
	}
	return nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ocr-refine [image_file]",
	Short: "Extract text from images with OCR and clean it up with a local LLM",
	Long: `A CLI tool that extracts text from images using Tesseract OCR and
optionally rewrites the result through a locally hosted Ollama model to fix
OCR artifacts.

Without arguments every supported image (jpg, jpeg, png, bmp, gif, tif, tiff)
in the configured images directory is processed; per-image JSON and text
artifacts plus a batch summary are written to the output directory. With a
single file argument only that image is processed and its JSON record is
printed to standard output.

Text is assembled line by line: recognized words are filtered by confidence,
sorted by vertical position and grouped into lines before joining.

A failing or unreachable correction server never loses text: the record
falls back to the raw OCR output and carries the error.

Examples:
  ocr-refine                                  # batch over ./images
  ocr-refine scan.png                         # single file, JSON to stdout
  ocr-refine --images-dir /data/in --output-dir /data/out
  ocr-refine scan.png --model llama2          # pick the correction model
  ocr-refine scan.png --languages eng         # tesseract language codes
  ocr-refine scan.png --no-correct            # OCR only
  ocr-refine --threshold 0.7 -v               # stricter filtering, verbose`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Printf("ocr-refine %s\n", version)
			return
		}

		handler := NewAppHandler()

		var err error
		if len(args) == 1 {
			err = handler.ProcessFile(args[0])
		} else {
			err = handler.ProcessBatch()
		}

		if err != nil {
			if appErr, ok := err.(*utils.AppError); ok {
				log.Fatalf("Error (%s): %s", appErr.Type, appErr.Message)
			}
			log.Fatalf("Error: %v", err)
		}
	},
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&imagesDir, "images-dir", "",
		"Directory scanned in batch mode (default: ./images)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "",
		"Directory for result artifacts (default: ./output)")
	rootCmd.Flags().StringVar(&ollamaHost, "host", "",
		"Ollama server URL (default: http://localhost:11434)")
	rootCmd.Flags().StringVar(&ollamaModel, "model", "",
		"Correction model name (default: mistral)")
	rootCmd.Flags().StringVar(&languages, "languages", "",
		"Comma-separated tesseract language codes (default: kor,eng)")
	rootCmd.Flags().Float64Var(&threshold, "threshold", -1,
		"Minimum fragment confidence in [0,1] (default: 0.5)")
	rootCmd.Flags().BoolVar(&skipCorrect, "no-correct", false,
		"Skip LLM correction and keep raw OCR text")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output to show progress information")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false,
		"Show version information")
}
