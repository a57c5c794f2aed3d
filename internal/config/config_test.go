package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefault(t *testing.T) {
	home := setHome(t)
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default should return a Config")
	}
	if cfg.BundleDir != filepath.Join(home, "Applications") {
		t.Errorf("BundleDir = %s", cfg.BundleDir)
	}
	if cfg.DescriptorDir != filepath.Join(home, ".local", "share", "applications") {
		t.Errorf("DescriptorDir = %s", cfg.DescriptorDir)
	}
	if cfg.RegistryPath != filepath.Join(home, ".config", "appreg", "registry.db") {
		t.Errorf("RegistryPath = %s", cfg.RegistryPath)
	}
	if cfg.BundleExt != "AppImage" || cfg.DescriptorExt != "desktop" {
		t.Errorf("unexpected extensions %q %q", cfg.BundleExt, cfg.DescriptorExt)
	}
}

func TestConfigPath(t *testing.T) {
	setHome(t)
	path := ConfigPath()

	if !filepath.IsAbs(path) {
		t.Error("ConfigPath should return absolute path")
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("Expected config file name 'config.yaml', got %s", filepath.Base(path))
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := setHome(t)

	cfg, err := Load(filepath.Join(home, "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BundleDir != filepath.Join(home, "Applications") {
		t.Errorf("BundleDir = %s", cfg.BundleDir)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	home := setHome(t)
	path := filepath.Join(home, "config.yaml")
	content := "bundle_dir: ~/Apps\nbundle_ext: .AppImage\ncategory: Development;\nextract_timeout: 5s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BundleDir != filepath.Join(home, "Apps") {
		t.Errorf("BundleDir = %s, want ~ expanded", cfg.BundleDir)
	}
	if cfg.BundleExt != "AppImage" {
		t.Errorf("BundleExt = %q, want leading dot trimmed", cfg.BundleExt)
	}
	if cfg.Category != "Development;" {
		t.Errorf("Category = %q", cfg.Category)
	}
	if d, _ := cfg.Timeout(); d != 5*time.Second {
		t.Errorf("Timeout() = %v", d)
	}
	if cfg.DescriptorDir != filepath.Join(home, ".local", "share", "applications") {
		t.Errorf("unset fields should keep defaults, DescriptorDir = %s", cfg.DescriptorDir)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := setHome(t)
	path := filepath.Join(home, "config.yaml")
	os.WriteFile(path, []byte("bundle_dir: /from/file\n"), 0644)

	t.Setenv("APPREG_BUNDLE_DIR", "/from/env")
	t.Setenv("APPREG_DEBUG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BundleDir != "/from/env" {
		t.Errorf("BundleDir = %s, want env override", cfg.BundleDir)
	}
	if !cfg.Debug {
		t.Error("Debug should be enabled from env")
	}
}

func TestLoad_InvalidInput(t *testing.T) {
	home := setHome(t)

	bad := filepath.Join(home, "bad.yaml")
	os.WriteFile(bad, []byte("bundle_dir: [unterminated\n"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	timeout := filepath.Join(home, "timeout.yaml")
	os.WriteFile(timeout, []byte("extract_timeout: soon\n"), 0644)
	if _, err := Load(timeout); err == nil {
		t.Error("expected timeout error")
	}
}

func TestEnsureDirectories(t *testing.T) {
	tmp := t.TempDir()
	cfg := &Config{
		BundleDir:     filepath.Join(tmp, "apps"),
		DescriptorDir: filepath.Join(tmp, "share", "applications"),
		IconDir:       filepath.Join(tmp, "share", "icons"),
		RegistryPath:  filepath.Join(tmp, "cfg", "registry.db"),
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}
	for _, dir := range []string{cfg.BundleDir, cfg.DescriptorDir, cfg.IconDir, filepath.Dir(cfg.RegistryPath)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory %s not created", dir)
		}
	}
}

func TestBundlePatterns(t *testing.T) {
	cfg := &Config{BundleDir: "/apps", BundleExt: "AppImage"}

	patterns := cfg.BundlePatterns()
	if len(patterns) != 2 || patterns[0] != "*.AppImage" || patterns[1] != "*.appimage" {
		t.Errorf("BundlePatterns() = %v", patterns)
	}

	lowerCfg := &Config{BundleExt: "appimage"}
	if got := lowerCfg.BundlePatterns(); len(got) != 1 {
		t.Errorf("BundlePatterns() = %v, want a single pattern", got)
	}
}
