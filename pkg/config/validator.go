package config

import (
	"fmt"
	"net/url"
	"strings"

	"ocr-refine/pkg/utils"
)

// ConfigValidator validates application configuration
type ConfigValidator struct{}

// NewConfigValidator creates a config validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate checks the configuration and collects all violations
func (v *ConfigValidator) Validate(c *Config) error {
	var errors []string

	if err := v.validateHost(c.OllamaHost); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateNumericValues(c); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateLogLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validatePromptTemplate(c.PromptTemplate); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return utils.NewValidationError("configuration validation failed",
			fmt.Errorf("validation errors: %s", strings.Join(errors, "; ")))
	}

	return nil
}

func (v *ConfigValidator) validateHost(host string) error {
	if host == "" {
		return fmt.Errorf("ollama_host cannot be empty")
	}
	parsed, err := url.Parse(host)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("ollama_host must be a full URL, got %q", host)
	}
	return nil
}

func (v *ConfigValidator) validateNumericValues(c *Config) error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be within [0,1], got %v", c.ConfidenceThreshold)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be at least 1, got %d", c.TimeoutSeconds)
	}
	return nil
}

func (v *ConfigValidator) validateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log_level %q (debug, info, warn, error)", level)
}

func (v *ConfigValidator) validatePromptTemplate(template string) error {
	if !strings.Contains(template, "{text}") {
		return fmt.Errorf("prompt_template must contain the {text} placeholder")
	}
	return nil
}
