package desktop

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffType represents the type of diff operation
type DiffType int

const (
	DiffEqual DiffType = iota
	DiffInsert
	DiffDelete
)

// DiffLine is one line of a descriptor comparison.
type DiffLine struct {
	Type    DiffType
	Content string
}

// DiffResult compares an existing descriptor with a proposed replacement.
type DiffResult struct {
	Lines        []DiffLine
	Identical    bool
	LinesAdded   int
	LinesRemoved int
}

// Diff computes a line diff between two descriptor texts.
func Diff(existing, proposed string) *DiffResult {
	result := &DiffResult{}

	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(existing, proposed)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	for _, d := range diffs {
		var t DiffType
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			t = DiffInsert
		case diffmatchpatch.DiffDelete:
			t = DiffDelete
		default:
			t = DiffEqual
		}

		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			result.Lines = append(result.Lines, DiffLine{Type: t, Content: line})
			switch t {
			case DiffInsert:
				result.LinesAdded++
			case DiffDelete:
				result.LinesRemoved++
			}
		}
	}

	result.Identical = result.LinesAdded == 0 && result.LinesRemoved == 0
	return result
}
