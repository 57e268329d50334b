package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ocr-refine/pkg/constants"

	"gopkg.in/yaml.v3"
)

// DefaultPromptTemplate is the correction prompt sent to the model.
// The {text} placeholder is replaced with the recognized text.
const DefaultPromptTemplate = `The following text was extracted from an image with OCR. Please:
1. Fix character substitutions caused by OCR errors
2. Correct unnatural wording
3. Fix spacing and grammar mistakes
4. Preserve the original meaning as much as possible

[Original text]
{text}

[Output only the corrected text]`

// Config holds application configuration
type Config struct {
	// Paths
	ImagesDir string `yaml:"images_dir"`
	OutputDir string `yaml:"output_dir"`

	// Ollama correction server
	OllamaHost     string `yaml:"ollama_host"`
	OllamaModel    string `yaml:"ollama_model"`
	MaxRetries     int    `yaml:"max_retries"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	PromptTemplate string `yaml:"prompt_template"`
	SkipCorrection bool   `yaml:"skip_correction"`

	// Recognition
	OCRLanguages        []string `yaml:"ocr_languages"`
	ConfidenceThreshold float64  `yaml:"confidence_threshold"`

	// Artifact save switches
	SaveRawText       bool `yaml:"save_raw_text"`
	SaveCorrectedText bool `yaml:"save_corrected_text"`
	SaveJSONResult    bool `yaml:"save_json_result"`

	// Logging
	LogLevel      string `yaml:"log_level"`
	EnableVerbose bool   `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ImagesDir:           constants.DefaultImagesDir,
		OutputDir:           constants.DefaultOutputDir,
		OllamaHost:          constants.DefaultOllamaHost,
		OllamaModel:         constants.DefaultOllamaModel,
		MaxRetries:          constants.DefaultMaxRetries,
		TimeoutSeconds:      int(constants.DefaultCorrectionTimeout / time.Second),
		PromptTemplate:      DefaultPromptTemplate,
		OCRLanguages:        strings.Split(constants.DefaultOCRLanguages, "+"),
		ConfidenceThreshold: constants.DefaultConfidenceThreshold,
		SaveRawText:         true,
		SaveCorrectedText:   true,
		SaveJSONResult:      true,
		LogLevel:            "info",
		EnableVerbose:       false,
	}
}

// LoadConfig loads configuration from the YAML file if present, starting
// from defaults. The file path comes from CONFIG_PATH or ./config.yaml.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			fmt.Printf("Warning: cannot parse %s, using defaults: %v\n", configPath, err)
			return DefaultConfig()
		}
	}

	return cfg
}

// LoadConfigWithEnvOverrides loads config from file and applies environment
// variable overrides.
func LoadConfigWithEnvOverrides() *Config {
	cfg := LoadConfig()

	envOverride(&cfg.ImagesDir, "OCR_REFINE_IMAGES_DIR")
	envOverride(&cfg.OutputDir, "OCR_REFINE_OUTPUT_DIR")
	envOverride(&cfg.OllamaHost, "OLLAMA_HOST")
	envOverride(&cfg.OllamaModel, "OLLAMA_MODEL")
	envOverride(&cfg.PromptTemplate, "OCR_REFINE_PROMPT_TEMPLATE")
	envOverride(&cfg.LogLevel, "OCR_REFINE_LOG_LEVEL")
	envOverrideInt(&cfg.MaxRetries, "OCR_REFINE_MAX_RETRIES")
	envOverrideInt(&cfg.TimeoutSeconds, "OCR_REFINE_TIMEOUT_SECONDS")
	envOverrideFloat(&cfg.ConfidenceThreshold, "OCR_REFINE_CONFIDENCE_THRESHOLD")
	envOverrideBool(&cfg.SkipCorrection, "OCR_REFINE_SKIP_CORRECTION")
	envOverrideBool(&cfg.EnableVerbose, "OCR_REFINE_VERBOSE")

	if langs := os.Getenv("OCR_REFINE_LANGUAGES"); langs != "" {
		cfg.OCRLanguages = nil
		for _, lang := range strings.Split(langs, ",") {
			lang = strings.TrimSpace(lang)
			if lang != "" {
				cfg.OCRLanguages = append(cfg.OCRLanguages, lang)
			}
		}
	}

	return cfg
}

// TesseractLanguages returns the configured languages in tesseract's
// plus-joined form, e.g. "kor+eng".
func (c *Config) TesseractLanguages() string {
	if len(c.OCRLanguages) == 0 {
		return constants.DefaultOCRLanguages
	}
	return strings.Join(c.OCRLanguages, "+")
}

// CorrectionTimeout returns the per-attempt correction timeout.
func (c *Config) CorrectionTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return constants.DefaultCorrectionTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the configuration
func (c *Config) Validate() error {
	return NewConfigValidator().Validate(c)
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Model: %s, Host: %s, Languages: %s, Threshold: %.2f}",
		c.OllamaModel, c.OllamaHost, c.TesseractLanguages(), c.ConfidenceThreshold)
}

func envOverride(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func envOverrideInt(target *int, key string) {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			*target = intVal
		}
	}
}

func envOverrideFloat(target *float64, key string) {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			*target = floatVal
		}
	}
}

func envOverrideBool(target *bool, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value == "true" || value == "1" || value == "yes"
	}
}
