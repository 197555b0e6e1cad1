package skeleton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quantmind-br/smashy/internal/domain"
)

// EditKind classifies an edit
type EditKind int

const (
	// EditDelete removes the span
	EditDelete EditKind = iota
	// EditReplace substitutes the span with Text
	EditReplace
)

func (k EditKind) String() string {
	switch k {
	case EditDelete:
		return "delete"
	case EditReplace:
		return "replace"
	default:
		return fmt.Sprintf("EditKind(%d)", int(k))
	}
}

// Edit is a half-open byte range [Start, End) of the original source
type Edit struct {
	Start int
	End   int
	Text  string
	Kind  EditKind
}

// Delete returns an edit removing [start, end)
func Delete(start, end int) Edit {
	return Edit{Start: start, End: end, Kind: EditDelete}
}

// Replace returns an edit substituting [start, end) with text
func Replace(start, end int, text string) Edit {
	return Edit{Start: start, End: end, Text: text, Kind: EditReplace}
}

func (e Edit) contains(o Edit) bool {
	return e.Start <= o.Start && o.End <= e.End
}

func (e Edit) replacement() string {
	if e.Kind == EditDelete {
		return ""
	}
	return e.Text
}

// Apply rewrites src with the given edits in one linear pass.
//
// Edits may arrive in any order. An edit lying entirely inside another one
// is dropped, since the outer edit already removes its span. Partially
// overlapping edits fail with domain.ErrOverlappingEdits.
func Apply(src string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return src, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	for _, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return "", fmt.Errorf("edit [%d,%d) out of bounds for %d bytes", e.Start, e.End, len(src))
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	kept := sorted[:0:0]
	for _, e := range sorted {
		if n := len(kept); n > 0 {
			last := kept[n-1]
			if last.contains(e) && last.End > last.Start {
				continue
			}
			if e.Start < last.End {
				return "", fmt.Errorf("%w: [%d,%d) and [%d,%d)",
					domain.ErrOverlappingEdits, last.Start, last.End, e.Start, e.End)
			}
		}
		kept = append(kept, e)
	}

	var b strings.Builder
	b.Grow(len(src))
	pos := 0
	for _, e := range kept {
		b.WriteString(src[pos:e.Start])
		b.WriteString(e.replacement())
		pos = e.End
	}
	b.WriteString(src[pos:])

	return b.String(), nil
}
