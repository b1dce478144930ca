package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/five82/stockroom/internal/catalog"
)

// Config holds the settings stockroom reads at startup.
type Config struct {
	APIURL           string
	PageSize         int
	RequestTimeout   time.Duration
	PremiumThreshold decimal.Decimal
	ExportDir        string
	LogFile          string
	LogLevel         string
}

const (
	defaultConfigPath     = "~/.config/stockroom/config.toml"
	defaultPageSize       = 10
	defaultRequestTimeout = 10 * time.Second
	defaultExportDir      = "~/Downloads"
	defaultLogFile        = "~/.local/state/stockroom/stockroom.log"
	defaultLogLevel       = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:           catalog.DefaultBaseURL,
		PageSize:         defaultPageSize,
		RequestTimeout:   defaultRequestTimeout,
		PremiumThreshold: catalog.DefaultPremiumThreshold,
		ExportDir:        mustExpand(defaultExportDir),
		LogFile:          mustExpand(defaultLogFile),
		LogLevel:         defaultLogLevel,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL           string `toml:"api_url"`
		PageSize         int    `toml:"page_size"`
		RequestTimeout   string `toml:"request_timeout"`
		PremiumThreshold string `toml:"premium_threshold"`
		ExportDir        string `toml:"export_dir"`
		LogFile          string `toml:"log_file"`
		LogLevel         string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout %q is not a positive duration", v)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.PremiumThreshold); v != "" {
		threshold, err := decimal.NewFromString(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: premium_threshold: %w", err)
		}
		cfg.PremiumThreshold = threshold
	}
	if v := strings.TrimSpace(raw.ExportDir); v != "" {
		cfg.ExportDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

// PricePolicy returns the badge policy for the configured threshold.
func (c Config) PricePolicy() catalog.PricePolicy {
	return catalog.PricePolicy{PremiumThreshold: c.PremiumThreshold}
}

// ExpandPath resolves a user supplied path the same way config values are.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
