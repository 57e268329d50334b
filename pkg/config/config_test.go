package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OllamaHost != "http://localhost:11434" {
		t.Errorf("OllamaHost = %q", cfg.OllamaHost)
	}
	if cfg.OllamaModel != "mistral" {
		t.Errorf("OllamaModel = %q", cfg.OllamaModel)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.TimeoutSeconds != 120 {
		t.Errorf("TimeoutSeconds = %d", cfg.TimeoutSeconds)
	}
	if cfg.ConfidenceThreshold != 0.5 {
		t.Errorf("ConfidenceThreshold = %v", cfg.ConfidenceThreshold)
	}
	if !cfg.SaveRawText || !cfg.SaveCorrectedText || !cfg.SaveJSONResult {
		t.Error("save flags should default to true")
	}
	if !strings.Contains(cfg.PromptTemplate, "{text}") {
		t.Error("default prompt template lacks {text} placeholder")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestTesseractLanguages(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.TesseractLanguages(); got != "kor+eng" {
		t.Errorf("TesseractLanguages() = %q, want kor+eng", got)
	}

	cfg.OCRLanguages = []string{"eng"}
	if got := cfg.TesseractLanguages(); got != "eng" {
		t.Errorf("TesseractLanguages() = %q, want eng", got)
	}

	cfg.OCRLanguages = nil
	if got := cfg.TesseractLanguages(); got != "kor+eng" {
		t.Errorf("TesseractLanguages() with no languages = %q, want fallback", got)
	}
}

func TestLoadConfigFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
ollama_model: llama2
confidence_threshold: 0.7
ocr_languages: [eng]
save_raw_text: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg := LoadConfig()

	if cfg.OllamaModel != "llama2" {
		t.Errorf("OllamaModel = %q, want llama2", cfg.OllamaModel)
	}
	if cfg.ConfidenceThreshold != 0.7 {
		t.Errorf("ConfidenceThreshold = %v, want 0.7", cfg.ConfidenceThreshold)
	}
	if cfg.TesseractLanguages() != "eng" {
		t.Errorf("languages = %q, want eng", cfg.TesseractLanguages())
	}
	if cfg.SaveRawText {
		t.Error("SaveRawText should be overridden to false")
	}
	// Keys absent from the file keep their defaults
	if cfg.OllamaHost != "http://localhost:11434" {
		t.Errorf("OllamaHost = %q, default lost", cfg.OllamaHost)
	}
	if !cfg.SaveJSONResult {
		t.Error("SaveJSONResult default lost")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg := LoadConfig()
	if cfg.OllamaModel != "mistral" {
		t.Errorf("OllamaModel = %q, want default", cfg.OllamaModel)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("OLLAMA_MODEL", "neural-chat")
	t.Setenv("OLLAMA_HOST", "http://10.0.0.2:11434")
	t.Setenv("OCR_REFINE_MAX_RETRIES", "5")
	t.Setenv("OCR_REFINE_CONFIDENCE_THRESHOLD", "0.8")
	t.Setenv("OCR_REFINE_LANGUAGES", "eng, deu")
	t.Setenv("OCR_REFINE_VERBOSE", "1")

	cfg := LoadConfigWithEnvOverrides()

	if cfg.OllamaModel != "neural-chat" {
		t.Errorf("OllamaModel = %q", cfg.OllamaModel)
	}
	if cfg.OllamaHost != "http://10.0.0.2:11434" {
		t.Errorf("OllamaHost = %q", cfg.OllamaHost)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.ConfidenceThreshold != 0.8 {
		t.Errorf("ConfidenceThreshold = %v", cfg.ConfidenceThreshold)
	}
	if cfg.TesseractLanguages() != "eng+deu" {
		t.Errorf("languages = %q, want eng+deu", cfg.TesseractLanguages())
	}
	if !cfg.EnableVerbose {
		t.Error("EnableVerbose not applied")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty host", func(c *Config) { c.OllamaHost = "" }},
		{"host without scheme", func(c *Config) { c.OllamaHost = "localhost:11434" }},
		{"threshold above one", func(c *Config) { c.ConfidenceThreshold = 1.5 }},
		{"negative threshold", func(c *Config) { c.ConfidenceThreshold = -0.1 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
		{"template without placeholder", func(c *Config) { c.PromptTemplate = "fix it" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestCorrectionTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutSeconds = 30
	if got := cfg.CorrectionTimeout().Seconds(); got != 30 {
		t.Errorf("CorrectionTimeout = %vs, want 30s", got)
	}

	cfg.TimeoutSeconds = 0
	if got := cfg.CorrectionTimeout().Seconds(); got != 120 {
		t.Errorf("CorrectionTimeout fallback = %vs, want 120s", got)
	}
}
