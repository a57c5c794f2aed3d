package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"appreg/internal/apperr"
	"appreg/internal/models"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "registry.db")
	return New(path, "AppImage", "desktop"), tmp
}

func readRaw(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return string(data)
}

func seed(t *testing.T, s *Store, names ...string) {
	t.Helper()
	for _, n := range names {
		e := models.Entry{
			Name:           n,
			ExecutablePath: "/apps/" + n + ".AppImage",
			DescriptorPath: "/desktop/" + n + ".desktop",
			IconPath:       "/icons/" + n + ".png",
		}
		if err := s.Append(e); err != nil {
			t.Fatalf("Append(%s) error = %v", n, err)
		}
	}
}

func TestLoad_MissingFileReturnsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	reg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d entries", reg.Len())
	}
}

func TestAppendLoad_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	entries := []models.Entry{
		{Name: "Foo", ExecutablePath: "/home/u/Applications/Foo.AppImage", DescriptorPath: "/home/u/.local/share/applications/Foo.desktop", IconPath: "/home/u/icons/foo.png"},
		{Name: "Bar Baz", ExecutablePath: "/opt/Bar Baz.AppImage"},
		{Name: "Qux-1.2", ExecutablePath: "/q/Qux-1.2.AppImage", IconPath: "/q/qux.svg"},
	}
	for _, e := range entries {
		if err := s.Append(e); err != nil {
			t.Fatalf("Append(%s) error = %v", e.Name, err)
		}
	}

	reg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := reg.Entries()
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}

	names := reg.List()
	if strings.Join(names, ",") != "Foo,Bar Baz,Qux-1.2" {
		t.Errorf("List() = %v, want insertion order", names)
	}
}

func TestAppend_RejectsDelimiterAndDuplicates(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "Foo")
	before := readRaw(t, s.Path())

	bad := []models.Entry{
		{Name: "A|B", ExecutablePath: "/x"},
		{Name: "A", ExecutablePath: "/x|y"},
		{Name: "A", ExecutablePath: "/x", IconPath: "line\nbreak"},
		{Name: "", ExecutablePath: "/x"},
		{Name: "A"},
		{Name: "Foo", ExecutablePath: "/other"},
	}
	for _, e := range bad {
		if err := s.Append(e); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Append(%+v) error = %v, want ErrValidation", e, err)
		}
	}

	if after := readRaw(t, s.Path()); after != before {
		t.Errorf("rejected appends modified the file:\n%s", after)
	}
}

func TestAppend_AfterFileWithoutTrailingNewline(t *testing.T) {
	s, _ := newTestStore(t)
	os.WriteFile(s.Path(), []byte("Foo|/a/Foo.AppImage||"), 0644)

	if err := s.Append(models.Entry{Name: "Bar", ExecutablePath: "/a/Bar.AppImage"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	reg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", reg.Len())
	}
}

func TestLoad_RejectsMalformedLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"short line", "Foo|/a/Foo.AppImage\n"},
		{"too many fields", "Foo|/a|/b|/c|/d\n"},
		{"empty name", "|/a/Foo.AppImage||\n"},
		{"empty executable", "Foo|||\n"},
		{"duplicate", "Foo|/a||\nFoo|/b||\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			os.WriteFile(s.Path(), []byte(tt.content), 0644)

			if _, err := s.Load(); !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("Load() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLoad_SkipsBlankLines(t *testing.T) {
	s, _ := newTestStore(t)
	os.WriteFile(s.Path(), []byte("Foo|/a||\n\nBar|/b||\n"), 0644)

	reg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", reg.Len())
	}
}

func TestUpdateInPlace_PreservesOtherRecords(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "A", "B", "C")
	before := strings.Split(readRaw(t, s.Path()), "\n")

	if err := s.UpdateInPlace("B", "/new/B.AppImage", "", "/icons/b.svg"); err != nil {
		t.Fatalf("UpdateInPlace() error = %v", err)
	}

	after := strings.Split(readRaw(t, s.Path()), "\n")
	if len(after) != len(before) {
		t.Fatalf("line count changed: %d -> %d", len(before), len(after))
	}
	if after[0] != before[0] || after[2] != before[2] {
		t.Errorf("unrelated records changed:\nbefore %q\nafter  %q", before, after)
	}
	if after[1] != "B|/new/B.AppImage||/icons/b.svg" {
		t.Errorf("updated record = %q", after[1])
	}

	reg, _ := s.Load()
	b, err := reg.Lookup("B")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if b.DescriptorPath != "" || b.IconPath != "/icons/b.svg" {
		t.Errorf("updated entry = %+v", b)
	}
}

func TestUpdateInPlace_NotFoundLeavesFileUntouched(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "A", "B")
	before := readRaw(t, s.Path())

	err := s.UpdateInPlace("Missing", "/x", "", "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("UpdateInPlace() error = %v, want ErrNotFound", err)
	}
	if after := readRaw(t, s.Path()); after != before {
		t.Error("file modified on NotFound")
	}
}

func TestUpdateInPlace_ValidatesFields(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "A")

	if err := s.UpdateInPlace("A", "/bad|path", "", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("UpdateInPlace() error = %v, want ErrValidation", err)
	}
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "A", "B", "C")

	if err := s.Remove("B"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	reg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Has("B") {
		t.Error("B should be removed")
	}
	if strings.Join(reg.List(), ",") != "A,C" {
		t.Errorf("List() = %v, want [A C]", reg.List())
	}
	if _, err := reg.Lookup("B"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Lookup(B) error = %v, want ErrNotFound", err)
	}
}

func TestRemove_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "A")
	before := readRaw(t, s.Path())

	if err := s.Remove("Z"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Remove() error = %v, want ErrNotFound", err)
	}
	if readRaw(t, s.Path()) != before {
		t.Error("file modified on NotFound")
	}

	empty, _ := newTestStore(t)
	if err := empty.Remove("Z"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Remove() on missing file error = %v, want ErrNotFound", err)
	}
}

func TestRewrite_LeavesNoTempFiles(t *testing.T) {
	s, dir := newTestStore(t)
	seed(t, s, "A", "B")

	if err := s.UpdateInPlace("A", "/x", "", ""); err != nil {
		t.Fatalf("UpdateInPlace() error = %v", err)
	}
	if err := s.Remove("B"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the registry file, found %v", names)
	}
}

func TestLoad_IgnoresInterruptedTempFile(t *testing.T) {
	s, dir := newTestStore(t)
	seed(t, s, "A", "B")
	before, _ := s.Load()

	// A crash after the temp write but before the rename leaves a stray file.
	stray := filepath.Join(dir, ".registry.db.12345.tmp")
	os.WriteFile(stray, []byte("A|/half"), 0644)

	after, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if strings.Join(after.List(), ",") != strings.Join(before.List(), ",") {
		t.Errorf("registry changed after interrupted write: %v", after.List())
	}
}

func TestInitializeFromScan(t *testing.T) {
	s, tmp := newTestStore(t)
	bundleDir := filepath.Join(tmp, "Applications")
	descDir := filepath.Join(tmp, "applications")
	os.MkdirAll(bundleDir, 0755)
	os.MkdirAll(descDir, 0755)

	for _, f := range []string{"Foo.AppImage", "Bar.AppImage", "notes.txt"} {
		os.WriteFile(filepath.Join(bundleDir, f), []byte("x"), 0755)
	}
	os.MkdirAll(filepath.Join(bundleDir, "Dir.AppImage"), 0755)

	// Stale content is discarded.
	os.WriteFile(s.Path(), []byte("Old|/old||\n"), 0644)

	res, err := s.InitializeFromScan(bundleDir, descDir)
	if err != nil {
		t.Fatalf("InitializeFromScan() error = %v", err)
	}
	if res.Count != 2 || len(res.Skipped) != 0 {
		t.Errorf("InitializeFromScan() = %+v, want 2 records", res)
	}

	reg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Len() != 2 || reg.Has("Old") {
		t.Fatalf("unexpected entries: %v", reg.List())
	}
	for _, name := range []string{"Foo", "Bar"} {
		e, err := reg.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%s) error = %v", name, err)
		}
		if e.ExecutablePath != filepath.Join(bundleDir, name+".AppImage") {
			t.Errorf("%s executable = %s", name, e.ExecutablePath)
		}
		if e.DescriptorPath != "" || e.IconPath != "" {
			t.Errorf("%s should have empty descriptor and icon, got %+v", name, e)
		}
	}
}

func TestInitializeFromScan_PicksUpDescriptorIcon(t *testing.T) {
	s, tmp := newTestStore(t)
	bundleDir := filepath.Join(tmp, "Applications")
	descDir := filepath.Join(tmp, "applications")
	os.MkdirAll(bundleDir, 0755)
	os.MkdirAll(descDir, 0755)

	os.WriteFile(filepath.Join(bundleDir, "Foo.AppImage"), []byte("x"), 0755)
	os.WriteFile(filepath.Join(bundleDir, "Bar.AppImage"), []byte("x"), 0755)
	os.WriteFile(filepath.Join(descDir, "Foo.desktop"),
		[]byte("[Desktop Entry]\nName=Foo\nIcon=/icons/foo.png\n"), 0644)
	os.WriteFile(filepath.Join(descDir, "Bar.desktop"),
		[]byte("[Desktop Entry]\nName=Bar\n"), 0644)

	if _, err := s.InitializeFromScan(bundleDir, descDir); err != nil {
		t.Fatalf("InitializeFromScan() error = %v", err)
	}

	reg, _ := s.Load()
	foo, _ := reg.Lookup("Foo")
	if foo.DescriptorPath != filepath.Join(descDir, "Foo.desktop") || foo.IconPath != "/icons/foo.png" {
		t.Errorf("Foo = %+v", foo)
	}
	bar, _ := reg.Lookup("Bar")
	if bar.DescriptorPath != filepath.Join(descDir, "Bar.desktop") || bar.IconPath != "" {
		t.Errorf("Bar = %+v", bar)
	}
}

func TestInitializeFromScan_MissingBundleDirYieldsEmpty(t *testing.T) {
	s, tmp := newTestStore(t)

	res, err := s.InitializeFromScan(filepath.Join(tmp, "none"), filepath.Join(tmp, "none2"))
	if err != nil {
		t.Fatalf("InitializeFromScan() error = %v", err)
	}
	if res.Count != 0 || !s.Exists() {
		t.Errorf("expected an empty registry file, count = %d, exists = %v", res.Count, s.Exists())
	}
}

func TestInitializeFromScan_SkipsUnencodableNames(t *testing.T) {
	s, tmp := newTestStore(t)
	bundleDir := filepath.Join(tmp, "Applications")
	descDir := filepath.Join(tmp, "applications")
	os.MkdirAll(bundleDir, 0755)
	os.MkdirAll(descDir, 0755)

	for _, f := range []string{"Foo.AppImage", "Weird|Name.AppImage", "Line\nBreak.AppImage"} {
		os.WriteFile(filepath.Join(bundleDir, f), []byte("x"), 0755)
	}
	os.WriteFile(s.Path(), []byte("Old|/old||\n"), 0644)

	res, err := s.InitializeFromScan(bundleDir, descDir)
	if err != nil {
		t.Fatalf("InitializeFromScan() error = %v", err)
	}
	if res.Count != 1 {
		t.Errorf("Count = %d, want 1", res.Count)
	}
	if len(res.Skipped) != 2 {
		t.Errorf("Skipped = %q, want the two unencodable bundles", res.Skipped)
	}

	reg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Len() != 1 || !reg.Has("Foo") || reg.Has("Old") {
		t.Errorf("unexpected entries: %v", reg.List())
	}
}

func TestInitializeFromScan_DropsUnencodableIcon(t *testing.T) {
	s, tmp := newTestStore(t)
	bundleDir := filepath.Join(tmp, "Applications")
	descDir := filepath.Join(tmp, "applications")
	os.MkdirAll(bundleDir, 0755)
	os.MkdirAll(descDir, 0755)

	os.WriteFile(filepath.Join(bundleDir, "Foo.AppImage"), []byte("x"), 0755)
	os.WriteFile(filepath.Join(descDir, "Foo.desktop"),
		[]byte("[Desktop Entry]\nName=Foo\nIcon=/icons/a|b.png\n"), 0644)

	res, err := s.InitializeFromScan(bundleDir, descDir)
	if err != nil {
		t.Fatalf("InitializeFromScan() error = %v", err)
	}
	if res.Count != 1 || len(res.Skipped) != 0 {
		t.Fatalf("InitializeFromScan() = %+v", res)
	}
	reg, _ := s.Load()
	foo, _ := reg.Lookup("Foo")
	if foo.DescriptorPath == "" || foo.IconPath != "" {
		t.Errorf("Foo = %+v, want descriptor kept and icon dropped", foo)
	}
}

func TestEnsureFile(t *testing.T) {
	tmp := t.TempDir()
	s := New(filepath.Join(tmp, "nested", "registry.db"), "AppImage", "desktop")

	if s.Exists() {
		t.Fatal("registry should not exist yet")
	}
	if err := s.EnsureFile(); err != nil {
		t.Fatalf("EnsureFile() error = %v", err)
	}
	if !s.Exists() {
		t.Error("registry should exist")
	}

	seed(t, s, "A")
	if err := s.EnsureFile(); err != nil {
		t.Fatalf("EnsureFile() error = %v", err)
	}
	reg, _ := s.Load()
	if reg.Len() != 1 {
		t.Error("EnsureFile must not truncate an existing registry")
	}
}

func TestRegistry_At(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "A", "B")
	reg, _ := s.Load()

	if e, ok := reg.At(1); !ok || e.Name != "B" {
		t.Errorf("At(1) = %+v, %v", e, ok)
	}
	if _, ok := reg.At(2); ok {
		t.Error("At(2) should be out of range")
	}
	if _, ok := reg.At(-1); ok {
		t.Error("At(-1) should be out of range")
	}
}
