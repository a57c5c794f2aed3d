package registry

import (
	"strings"

	"appreg/internal/apperr"
	"appreg/internal/models"
)

// Delimiter separates the four fields of a record. Fields may not contain it.
const Delimiter = "|"

const fieldCount = 4

// encodeRecord returns the on-disk line for e, without the trailing newline.
func encodeRecord(e models.Entry) (string, error) {
	if strings.TrimSpace(e.Name) == "" {
		return "", apperr.Validation("entry name is required")
	}
	if e.ExecutablePath == "" {
		return "", apperr.Validation("entry %q has no executable path", e.Name)
	}

	fields := []string{e.Name, e.ExecutablePath, e.DescriptorPath, e.IconPath}
	for _, f := range fields {
		if strings.Contains(f, Delimiter) {
			return "", apperr.Validation("%q contains the reserved character %q", f, Delimiter)
		}
		if strings.ContainsAny(f, "\r\n") {
			return "", apperr.Validation("%q contains a line break", f)
		}
	}
	return strings.Join(fields, Delimiter), nil
}

// decodeRecord parses one line. lineNo is 1-based and used in errors.
func decodeRecord(line string, lineNo int) (models.Entry, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != fieldCount {
		return models.Entry{}, apperr.Validation("malformed record on line %d: want %d fields, got %d", lineNo, fieldCount, len(fields))
	}
	if fields[0] == "" {
		return models.Entry{}, apperr.Validation("malformed record on line %d: empty name", lineNo)
	}
	if fields[1] == "" {
		return models.Entry{}, apperr.Validation("malformed record on line %d: empty executable path", lineNo)
	}
	return models.Entry{
		Name:           fields[0],
		ExecutablePath: fields[1],
		DescriptorPath: fields[2],
		IconPath:       fields[3],
	}, nil
}

// recordName returns the name field of a raw line without validating the rest.
func recordName(line string) string {
	name, _, _ := strings.Cut(line, Delimiter)
	return name
}
