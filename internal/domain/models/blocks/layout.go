package blocks

import (
	"fmt"

	"quill/internal/domain"
)

// LayoutType names how a section splits into columns.
type LayoutType string

const (
	LayoutFull       LayoutType = "full"
	LayoutTwoEqual   LayoutType = "two-equal"
	LayoutTwoLeft    LayoutType = "two-left"
	LayoutTwoRight   LayoutType = "two-right"
	LayoutThreeEqual LayoutType = "three-equal"
)

// layoutWidths is the single source of the layout → column shape mapping.
// Column count is len(widths); widths are relative percentages and only a
// presentation hint.
var layoutWidths = map[LayoutType][]int{
	LayoutFull:       {100},
	LayoutTwoEqual:   {50, 50},
	LayoutTwoLeft:    {70, 30},
	LayoutTwoRight:   {30, 70},
	LayoutThreeEqual: {33, 34, 33},
}

// Layouts returns every supported layout in a stable order.
func Layouts() []LayoutType {
	return []LayoutType{LayoutFull, LayoutTwoEqual, LayoutTwoLeft, LayoutTwoRight, LayoutThreeEqual}
}

// Valid reports whether l is a known layout.
func (l LayoutType) Valid() bool {
	_, ok := layoutWidths[l]
	return ok
}

// ColumnCountFor returns the fixed number of columns for a layout.
func ColumnCountFor(l LayoutType) (int, error) {
	widths, ok := layoutWidths[l]
	if !ok {
		return 0, unknownLayout(l)
	}
	return len(widths), nil
}

// WidthsFor returns the relative column widths for a layout. The returned
// slice is a copy.
func WidthsFor(l LayoutType) ([]int, error) {
	widths, ok := layoutWidths[l]
	if !ok {
		return nil, unknownLayout(l)
	}
	out := make([]int, len(widths))
	copy(out, widths)
	return out, nil
}

func unknownLayout(l LayoutType) error {
	return fmt.Errorf("%w: %q (want one of %v)", domain.ErrInvalidLayout, l, Layouts())
}
