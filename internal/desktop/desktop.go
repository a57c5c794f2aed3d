// Package desktop reads and writes freedesktop launcher descriptors
// (".desktop" files) for managed bundles.
package desktop

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"appreg/internal/apperr"
	"appreg/internal/fsutil"
)

// Field keys the writer manages.
const (
	KeyName       = "Name"
	KeyExec       = "Exec"
	KeyIcon       = "Icon"
	KeyType       = "Type"
	KeyCategories = "Categories"
	KeyTerminal   = "Terminal"
	KeyComment    = "Comment"
)

const (
	groupHeader = "[Desktop Entry]"
	// FilePlaceholder is appended to Exec so launchers can pass opened files.
	FilePlaceholder = "%U"
	// DefaultCategory is used when the writer has no category configured.
	DefaultCategory = "Utility;"
)

// Descriptor is the content of one launcher entry.
type Descriptor struct {
	Name     string
	Exec     string
	Icon     string // omitted from output when empty
	Category string
	Comment  string
}

// ExecCommand returns the Exec value invoking bundlePath with the file
// placeholder, e.g. `"/home/u/Applications/X.AppImage" %U`. The path is
// quoted by the Exec key rules, then escaped like any string value.
func ExecCommand(bundlePath string) string {
	return valueEscaper.Replace(quoteExecArg(bundlePath)) + " " + FilePlaceholder
}

// quoteExecArg wraps arg in double quotes. Inside the quotes '"', '`', '$'
// and '\' take a backslash, and '%' is doubled so it is not a field code.
func quoteExecArg(arg string) string {
	var b strings.Builder
	b.Grow(len(arg) + 2)
	b.WriteByte('"')
	for _, r := range arg {
		switch r {
		case '"', '`', '$', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '%':
			b.WriteString("%%")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// valueEscaper applies the escape sequences of descriptor string values.
var valueEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

// Render returns the descriptor text.
func (d Descriptor) Render() string {
	category := d.Category
	if category == "" {
		category = DefaultCategory
	}

	var b strings.Builder
	b.WriteString(groupHeader + "\n")
	fmt.Fprintf(&b, "%s=%s\n", KeyName, d.Name)
	fmt.Fprintf(&b, "%s=%s\n", KeyExec, d.Exec)
	if d.Icon != "" {
		fmt.Fprintf(&b, "%s=%s\n", KeyIcon, d.Icon)
	}
	fmt.Fprintf(&b, "%s=Application\n", KeyType)
	fmt.Fprintf(&b, "%s=%s\n", KeyCategories, category)
	fmt.Fprintf(&b, "%s=false\n", KeyTerminal)
	fmt.Fprintf(&b, "%s=%s\n", KeyComment, d.Comment)
	return b.String()
}

// ConfirmFunc decides whether an existing descriptor at path may be
// replaced. existing and proposed are the old and new file contents.
type ConfirmFunc func(path, existing, proposed string) (bool, error)

// Writer creates, edits, renames and removes descriptors inside one
// directory.
type Writer struct {
	dir      string
	ext      string
	category string
}

// NewWriter creates a Writer for descriptors named "<name>.<ext>" in dir.
func NewWriter(dir, ext, category string) *Writer {
	if ext == "" {
		ext = "desktop"
	}
	if category == "" {
		category = DefaultCategory
	}
	return &Writer{dir: dir, ext: ext, category: category}
}

// PathFor returns the canonical descriptor path for name.
func (w *Writer) PathFor(name string) string {
	return filepath.Join(w.dir, name+"."+w.ext)
}

// Write emits a descriptor for name and returns its path. An existing file
// is replaced only when confirm approves; a nil confirm never overwrites.
func (w *Writer) Write(name, execCommand, iconPath, comment string, confirm ConfirmFunc) (string, error) {
	path := w.PathFor(name)
	d := Descriptor{
		Name:     name,
		Exec:     execCommand,
		Icon:     iconPath,
		Category: w.category,
		Comment:  comment,
	}
	content := d.Render()

	if existing, err := os.ReadFile(path); err == nil {
		ok := false
		if confirm != nil {
			ok, err = confirm(path, string(existing), content)
			if err != nil {
				return "", err
			}
		}
		if !ok {
			return "", apperr.Aborted(fmt.Sprintf("descriptor %s already exists", filepath.Base(path)))
		}
	} else if !os.IsNotExist(err) {
		return "", apperr.IO("read existing descriptor", err)
	}

	if err := fsutil.WriteAtomic(path, []byte(content), 0755); err != nil {
		return "", apperr.IO("write descriptor", err)
	}
	return path, nil
}

// UpdateField rewrites one key in the [Desktop Entry] group of the file at
// path. An empty value for Icon deletes the line instead of writing "Icon=".
// A key that is missing is inserted at the end of the group.
func (w *Writer) UpdateField(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperr.IO("read descriptor", err)
	}

	remove := value == "" && key == KeyIcon
	lines := splitLines(string(data))
	out := make([]string, 0, len(lines)+1)
	inGroup, done := false, false
	groupEnd := -1

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isGroupHeader(trimmed) {
			if inGroup && groupEnd < 0 {
				groupEnd = trimTrailingBlank(out)
			}
			inGroup = trimmed == groupHeader
		}
		if inGroup && !done {
			if k, _, ok := splitKey(trimmed); ok && k == key {
				done = true
				if !remove {
					out = append(out, key+"="+value)
				}
				continue
			}
		}
		out = append(out, line)
	}

	if !done && !remove {
		if groupEnd < 0 {
			groupEnd = trimTrailingBlank(out)
		}
		out = append(out[:groupEnd], append([]string{key + "=" + value}, out[groupEnd:]...)...)
	}

	if err := fsutil.WriteAtomic(path, []byte(strings.Join(out, "\n")+"\n"), 0755); err != nil {
		return apperr.IO("update descriptor", err)
	}
	return nil
}

// Rename moves the descriptor at oldPath to the path derived from newName.
func (w *Writer) Rename(oldPath, newName string) (string, error) {
	newPath := filepath.Join(filepath.Dir(oldPath), newName+"."+w.ext)
	if newPath == oldPath {
		return oldPath, nil
	}
	if _, err := os.Stat(newPath); err == nil {
		return "", apperr.Validation("descriptor %s already exists", filepath.Base(newPath))
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return "", apperr.IO("rename descriptor", err)
	}
	return newPath, nil
}

// Remove deletes the descriptor at path. A missing file is not an error.
func (w *Writer) Remove(path string) error {
	if err := fsutil.RemoveIfExists(path); err != nil {
		return apperr.IO("remove descriptor", err)
	}
	return nil
}

// ReadField returns the value of key in the [Desktop Entry] group of the
// descriptor at path. found is false when the key is absent.
func ReadField(path, key string) (value string, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	inGroup := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if isGroupHeader(line) {
			if inGroup {
				break
			}
			inGroup = line == groupHeader
			continue
		}
		if !inGroup {
			continue
		}
		if k, v, ok := splitKey(line); ok && k == key {
			return v, true, nil
		}
	}
	return "", false, scanner.Err()
}

// ParseFields returns all keys of the first [Desktop Entry] group in text.
func ParseFields(text string) map[string]string {
	fields := make(map[string]string)
	inGroup := false
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if isGroupHeader(line) {
			if inGroup {
				break
			}
			inGroup = line == groupHeader
			continue
		}
		if !inGroup {
			continue
		}
		if k, v, ok := splitKey(line); ok {
			if _, seen := fields[k]; !seen {
				fields[k] = v
			}
		}
	}
	return fields
}

func isGroupHeader(line string) bool {
	return strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}

func splitKey(line string) (key, value string, ok bool) {
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	k, v, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), true
}

func splitLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func trimTrailingBlank(lines []string) int {
	n := len(lines)
	for n > 0 && strings.TrimSpace(lines[n-1]) == "" {
		n--
	}
	return n
}
