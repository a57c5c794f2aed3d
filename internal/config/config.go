package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"appreg/internal/paths"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	BundleDir      string `yaml:"bundle_dir" envconfig:"APPREG_BUNDLE_DIR"`           // Managed directory for bundles
	DescriptorDir  string `yaml:"descriptor_dir" envconfig:"APPREG_DESCRIPTOR_DIR"`   // Launcher descriptors
	IconDir        string `yaml:"icon_dir" envconfig:"APPREG_ICON_DIR"`               // Copied icons
	DownloadsDir   string `yaml:"downloads_dir" envconfig:"APPREG_DOWNLOADS_DIR"`     // Where new bundles are looked for
	RegistryPath   string `yaml:"registry_path" envconfig:"APPREG_REGISTRY_PATH"`     // Flat registry file
	BundleExt      string `yaml:"bundle_ext" envconfig:"APPREG_BUNDLE_EXT"`           // Without the dot
	DescriptorExt  string `yaml:"descriptor_ext" envconfig:"APPREG_DESCRIPTOR_EXT"`   // Without the dot
	Category       string `yaml:"category" envconfig:"APPREG_CATEGORY"`               // Categories= value
	ExtractTimeout string `yaml:"extract_timeout" envconfig:"APPREG_EXTRACT_TIMEOUT"` // Go duration, e.g. "30s"
	RefreshCommand string `yaml:"refresh_command" envconfig:"APPREG_REFRESH_COMMAND"` // Launcher cache refresh tool
	Debug          bool   `yaml:"debug" envconfig:"APPREG_DEBUG"`
}

const (
	configFileName = "config.yaml"

	defaultExtractTimeout = 30 * time.Second
)

// Default returns the default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		BundleDir:      filepath.Join(homeDir, "Applications"),
		DescriptorDir:  filepath.Join(homeDir, ".local", "share", "applications"),
		IconDir:        filepath.Join(homeDir, ".local", "share", "icons", "appreg"),
		DownloadsDir:   filepath.Join(homeDir, "Downloads"),
		RegistryPath:   filepath.Join(ConfigDir(), "registry.db"),
		BundleExt:      "AppImage",
		DescriptorExt:  "desktop",
		Category:       "Utility;",
		ExtractTimeout: defaultExtractTimeout.String(),
		RefreshCommand: "update-desktop-database",
	}
}

// ConfigDir returns the directory containing appreg config files
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "appreg")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists) and APPREG_* environment variables, in that order. An empty path
// uses ConfigPath().
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	cfg := Default()

	data, err := os.ReadFile(paths.ExpandHome(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.normalize()
	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureDirectories creates necessary directories
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.BundleDir,
		c.DescriptorDir,
		c.IconDir,
		filepath.Dir(c.RegistryPath),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return nil
}

// Timeout returns ExtractTimeout as a duration. Zero selects the extractor default.
func (c *Config) Timeout() (time.Duration, error) {
	if c.ExtractTimeout == "" {
		return defaultExtractTimeout, nil
	}
	d, err := time.ParseDuration(c.ExtractTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid extract_timeout %q: %w", c.ExtractTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid extract_timeout %q: negative", c.ExtractTimeout)
	}
	return d, nil
}

// BundlePatterns returns glob patterns matching bundle files
func (c *Config) BundlePatterns() []string {
	patterns := []string{"*." + c.BundleExt}
	if low := strings.ToLower(c.BundleExt); low != c.BundleExt {
		patterns = append(patterns, "*."+low)
	}
	return patterns
}

func (c *Config) normalize() {
	c.BundleDir = paths.ExpandHome(c.BundleDir)
	c.DescriptorDir = paths.ExpandHome(c.DescriptorDir)
	c.IconDir = paths.ExpandHome(c.IconDir)
	c.DownloadsDir = paths.ExpandHome(c.DownloadsDir)
	c.RegistryPath = paths.ExpandHome(c.RegistryPath)
	c.BundleExt = trimDot(c.BundleExt)
	c.DescriptorExt = trimDot(c.DescriptorExt)
}

func trimDot(ext string) string {
	return strings.TrimLeft(strings.TrimSpace(ext), ".")
}
