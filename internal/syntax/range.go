package syntax

import "fmt"

// TextRange is a half-open byte range [Start, End) into the source a tree was parsed from.
type TextRange struct {
	Start uint32 `json:"start" msgpack:"s"`
	End   uint32 `json:"end" msgpack:"e"`
}

// NewTextRange builds a range from tree-sitter byte offsets.
func NewTextRange(start, end uint) TextRange {
	return TextRange{Start: uint32(start), End: uint32(end)}
}

func (r TextRange) Empty() bool {
	return r.Start == r.End
}

func (r TextRange) Len() uint32 {
	return r.End - r.Start
}

// Cover returns the smallest range containing both r and other.
func (r TextRange) Cover(other TextRange) TextRange {
	if other.Start < r.Start {
		r.Start = other.Start
	}
	if other.End > r.End {
		r.End = other.End
	}
	return r
}

// Contains reports whether other lies entirely within r.
func (r TextRange) Contains(other TextRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}
