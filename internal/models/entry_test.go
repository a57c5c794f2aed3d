package models

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEntry_Usable(t *testing.T) {
	tmp := t.TempDir()
	exe := filepath.Join(tmp, "App.AppImage")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	e := Entry{Name: "App", ExecutablePath: exe}
	if e.Usable() {
		t.Error("non-executable file should not be usable")
	}

	if err := os.Chmod(exe, 0755); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}
	if !e.Usable() {
		t.Error("executable file should be usable")
	}

	missing := Entry{Name: "Gone", ExecutablePath: filepath.Join(tmp, "Gone.AppImage")}
	if missing.Usable() {
		t.Error("missing file should not be usable")
	}

	dir := Entry{Name: "Dir", ExecutablePath: tmp}
	if dir.Usable() {
		t.Error("directory should not be usable")
	}
}

func TestEntry_Flags(t *testing.T) {
	e := Entry{Name: "X"}
	if e.HasDescriptor() || e.HasIcon() {
		t.Error("empty entry should have neither descriptor nor icon")
	}

	e.DescriptorPath = "/d/X.desktop"
	e.IconPath = "/i/X.png"
	if !e.HasDescriptor() || !e.HasIcon() {
		t.Error("expected descriptor and icon to be reported")
	}
}

func TestBundlePath(t *testing.T) {
	if got := BundlePath("/apps", "X", "AppImage"); got != "/apps/X.AppImage" {
		t.Errorf("BundlePath() = %q", got)
	}
	if got := FileName("X", "desktop"); got != "X.desktop" {
		t.Errorf("FileName() = %q", got)
	}
}
