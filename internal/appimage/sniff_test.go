package appimage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsELF(t *testing.T) {
	self, err := os.Executable()
	if err != nil {
		t.Skip("cannot locate test binary")
	}
	ok, mime, err := IsELF(self)
	if err != nil {
		t.Fatalf("IsELF() error = %v", err)
	}
	if !ok {
		t.Errorf("test binary should be ELF, got %s", mime)
	}

	script := filepath.Join(t.TempDir(), "script.AppImage")
	os.WriteFile(script, []byte("#!/bin/sh\necho hi\n"), 0755)
	ok, _, err = IsELF(script)
	if err != nil {
		t.Fatalf("IsELF() error = %v", err)
	}
	if ok {
		t.Error("shell script should not be ELF")
	}

	if _, _, err := IsELF(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsImage(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "icon.png")
	header := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	os.WriteFile(png, header, 0644)

	svg := filepath.Join(dir, "icon.svg")
	os.WriteFile(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16"></svg>`), 0644)

	text := filepath.Join(dir, "notes.txt")
	os.WriteFile(text, []byte("just text"), 0644)

	tests := []struct {
		path string
		want bool
	}{
		{png, true},
		{svg, true},
		{text, false},
	}
	for _, tt := range tests {
		got, mime, err := IsImage(tt.path)
		if err != nil {
			t.Fatalf("IsImage() error = %v", err)
		}
		if got != tt.want {
			t.Errorf("IsImage(%s) = %v (%s), want %v", filepath.Base(tt.path), got, mime, tt.want)
		}
	}
}
