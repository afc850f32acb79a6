// Package config loads application configuration from YAML, git config and
// CLI overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Message style names accepted by message_style.
const (
	StylePlain        = "plain"
	StyleConventional = "conventional"
)

// Defaults for the generation endpoint. The base URL points at a local
// Ollama instance speaking the OpenAI-compatible API.
const (
	DefaultModel           = "qwen2.5-coder"
	DefaultBaseURL         = "http://localhost:11434/v1"
	DefaultMaxSummaryChars = 20000

	// Local endpoints ignore the bearer token but the client requires one.
	placeholderAPIKey = "ollama"
)

// AppConfig defines the global lazycommit configuration options.
type AppConfig struct {
	Model           string // Model ID sent with every generation request
	BaseURL         string // OpenAI-compatible endpoint base URL
	APIKey          string // Bearer token for the endpoint
	MessageStyle    string // Commit message style: "plain" or "conventional"
	ShowIcons       bool   // Render Nerd Font icons in the staged file listing (default: true)
	MaxSummaryChars int    // Truncate the staged listing beyond this many chars (0 disables)
	DebugLog        string // Debug log file path, empty disables debug logging
	AutoStage       bool   // Stage modified and untracked files before generating (default: true)
}

// DefaultConfig returns the default configuration values.
// OPENAI_API_KEY seeds the api_key default when present.
func DefaultConfig() *AppConfig {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = placeholderAPIKey
	}

	return &AppConfig{
		Model:           DefaultModel,
		BaseURL:         DefaultBaseURL,
		APIKey:          apiKey,
		MessageStyle:    StylePlain,
		ShowIcons:       true,
		MaxSummaryChars: DefaultMaxSummaryChars,
		AutoStage:       true,
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func parseConfig(data map[string]any) *AppConfig {
	return applyConfigData(DefaultConfig(), data)
}

// applyConfigData overlays recognized keys from data onto cfg and returns cfg.
// Unknown keys are ignored so shared config files stay forward compatible.
func applyConfigData(cfg *AppConfig, data map[string]any) *AppConfig {
	if model, ok := data["model"].(string); ok {
		model = strings.TrimSpace(model)
		if model != "" {
			cfg.Model = model
		}
	}

	if baseURL, ok := data["base_url"].(string); ok {
		baseURL = strings.TrimSpace(baseURL)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
	}

	if apiKey, ok := data["api_key"].(string); ok {
		apiKey = strings.TrimSpace(apiKey)
		if apiKey != "" {
			cfg.APIKey = apiKey
		}
	}

	if style, ok := data["message_style"].(string); ok {
		style = strings.ToLower(strings.TrimSpace(style))
		if style == StylePlain || style == StyleConventional {
			cfg.MessageStyle = style
		}
	}

	if debugLog, ok := data["debug_log"].(string); ok {
		debugLog = strings.TrimSpace(debugLog)
		if debugLog != "" {
			cfg.DebugLog = debugLog
		}
	}

	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.AutoStage = coerceBool(data["auto_stage"], cfg.AutoStage)
	cfg.MaxSummaryChars = coerceInt(data["max_summary_chars"], cfg.MaxSummaryChars)

	if cfg.MaxSummaryChars < 0 {
		cfg.MaxSummaryChars = 0
	}

	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the application configuration from a YAML file.
func LoadConfig(configPath string) (*AppConfig, error) {
	configBase := filepath.Join(getConfigDir(), "lazycommit")
	configBase = filepath.Clean(configBase)

	var paths []string

	if configPath != "" {
		expanded, err := expandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		if !isPathWithin(configBase, absPath) {
			return DefaultConfig(), fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	var cfg *AppConfig

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is constrained to the config directory after validation
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), nil
		}

		cfg = parseConfig(yamlData)
		break
	}

	if cfg == nil {
		cfg = DefaultConfig()
	}

	return cfg, nil
}

// ApplyGitConfig overlays lzc.* values from git config onto cfg.
// Global values apply first, then local values from the repository at
// repoPath (or the repository containing the working directory when
// repoPath is empty). Local wins over global, both win over the file.
func ApplyGitConfig(cfg *AppConfig, repoPath string) (*AppConfig, error) {
	globalData, err := loadGitConfig(true, "")
	if err != nil {
		return cfg, fmt.Errorf("read global git config: %w", err)
	}
	cfg = applyConfigData(cfg, globalData)

	repoPath = determineRepoPath(repoPath)
	if repoPath == "" {
		return cfg, nil
	}

	localData, err := loadGitConfig(false, repoPath)
	if err != nil {
		return cfg, fmt.Errorf("read local git config: %w", err)
	}
	return applyConfigData(cfg, localData), nil
}

// ApplyCLIOverrides applies --config lzc.key=value pairs onto cfg.
// Overrides take precedence over every other configuration source.
func ApplyCLIOverrides(cfg *AppConfig, overrides []string) (*AppConfig, error) {
	if len(overrides) == 0 {
		return cfg, nil
	}

	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return cfg, err
	}
	return applyConfigData(cfg, data), nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}
