package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ocr-refine/pkg/config"
	"ocr-refine/pkg/correct"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration the tool would run with.

Values come from built-in defaults, overlaid with config.yaml (or the file
named by CONFIG_PATH) and environment variables.

Available commands:
  show   - Print every effective setting
  check  - Validate the configuration and probe the correction server

Examples:
  ocr-refine config show
  ocr-refine config check
  CONFIG_PATH=./prod.yaml ocr-refine config show`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "show":
			showConfig()
		case "check":
			checkConfig()
		default:
			fmt.Printf("Error: Unknown config command '%s'\n", args[0])
			fmt.Println("Available commands: show, check")
		}
	},
}

// showConfig prints the effective configuration
func showConfig() {
	cfg := config.LoadConfigWithEnvOverrides()

	fmt.Println("⚙️  Effective Configuration")
	fmt.Println("===========================")

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	fmt.Printf("📁 Config file: %s\n\n", configPath)

	fmt.Printf("  %-22s = %s\n", "images_dir", cfg.ImagesDir)
	fmt.Printf("  %-22s = %s\n", "output_dir", cfg.OutputDir)
	fmt.Printf("  %-22s = %s\n", "ollama_host", cfg.OllamaHost)
	fmt.Printf("  %-22s = %s\n", "ollama_model", cfg.OllamaModel)
	fmt.Printf("  %-22s = %s\n", "ocr_languages", strings.Join(cfg.OCRLanguages, ","))
	fmt.Printf("  %-22s = %.2f\n", "confidence_threshold", cfg.ConfidenceThreshold)
	fmt.Printf("  %-22s = %d\n", "max_retries", cfg.MaxRetries)
	fmt.Printf("  %-22s = %d\n", "timeout_seconds", cfg.TimeoutSeconds)
	fmt.Printf("  %-22s = %v\n", "skip_correction", cfg.SkipCorrection)
	fmt.Printf("  %-22s = %v\n", "save_raw_text", cfg.SaveRawText)
	fmt.Printf("  %-22s = %v\n", "save_corrected_text", cfg.SaveCorrectedText)
	fmt.Printf("  %-22s = %v\n", "save_json_result", cfg.SaveJSONResult)
	fmt.Printf("  %-22s = %s\n", "log_level", cfg.LogLevel)

	fmt.Println("\n💡 Tip: Environment variables (OCR_REFINE_*, OLLAMA_*) override the file")
}

// checkConfig validates the configuration and probes the correction server
func checkConfig() {
	cfg := config.LoadConfigWithEnvOverrides()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Configuration is invalid: %v\n", err)
		return
	}
	fmt.Println("✅ Configuration is valid")

	client := correct.NewClientFromConfig(cfg, nil)
	if err := client.Ping(context.Background()); err != nil {
		fmt.Printf("❌ Correction server unreachable at %s: %v\n", cfg.OllamaHost, err)
		return
	}
	fmt.Printf("✅ Correction server reachable at %s\n", cfg.OllamaHost)

	models, err := client.Models(context.Background())
	if err != nil {
		fmt.Printf("⚠️  Could not list models: %v\n", err)
		return
	}

	fmt.Printf("📦 Installed models: %s\n", strings.Join(models, ", "))
	for _, model := range models {
		if model == cfg.OllamaModel || strings.HasPrefix(model, cfg.OllamaModel+":") {
			fmt.Printf("✅ Configured model %q is installed\n", cfg.OllamaModel)
			return
		}
	}
	fmt.Printf("⚠️  Configured model %q not found; run: ollama pull %s\n",
		cfg.OllamaModel, cfg.OllamaModel)
}

// configShowCmd represents the 'config show' command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every effective setting",
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

// configCheckCmd represents the 'config check' command
var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and probe the correction server",
	Run: func(cmd *cobra.Command, args []string) {
		checkConfig()
	},
}

func init() {
	// Add config command to root
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
}
