package catalog

import (
	"encoding/json"
	"strings"

	"shoplist/internal/models"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffType represents the type of diff operation
type DiffType int

const (
	DiffEqual DiffType = iota
	DiffInsert
	DiffDelete
)

// Prefix returns the unified-diff marker for the type
func (t DiffType) Prefix() string {
	switch t {
	case DiffInsert:
		return "+"
	case DiffDelete:
		return "-"
	default:
		return " "
	}
}

// DiffLine is a single line of a catalog diff
type DiffLine struct {
	Type    DiffType
	Content string
}

// DiffResult is the line diff between two catalogs rendered as JSON
type DiffResult struct {
	Identical    bool
	Lines        []DiffLine
	LinesAdded   int
	LinesRemoved int
}

// MarshalPretty renders a catalog as indented JSON with sorted categories
func MarshalPretty(c models.Catalog) string {
	if c == nil {
		c = models.Catalog{}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Diff compares two catalogs line by line (old → new)
func Diff(oldCatalog, newCatalog models.Catalog) *DiffResult {
	oldText := MarshalPretty(oldCatalog)
	newText := MarshalPretty(newCatalog)

	result := &DiffResult{}
	if oldText == newText {
		result.Identical = true
		for _, line := range strings.Split(oldText, "\n") {
			result.Lines = append(result.Lines, DiffLine{Type: DiffEqual, Content: line})
		}
		return result
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldText+"\n", newText+"\n")
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	for _, d := range diffs {
		var typ DiffType
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			typ = DiffInsert
		case diffmatchpatch.DiffDelete:
			typ = DiffDelete
		default:
			typ = DiffEqual
		}

		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			result.Lines = append(result.Lines, DiffLine{Type: typ, Content: line})
			switch typ {
			case DiffInsert:
				result.LinesAdded++
			case DiffDelete:
				result.LinesRemoved++
			}
		}
	}
	return result
}

// String renders the diff in unified style
func (r *DiffResult) String() string {
	var b strings.Builder
	for i, line := range r.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.Type.Prefix())
		b.WriteString(line.Content)
	}
	return b.String()
}
