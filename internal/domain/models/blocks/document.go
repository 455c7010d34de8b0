package blocks

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a fresh identifier for a block, column or section.
var NewID = func() string {
	return uuid.NewString()
}

// Column is an ordered run of blocks. An empty column is a valid editor
// placeholder.
type Column struct {
	ID     string  `json:"id"`
	Blocks []Block `json:"blocks"`
}

// Section is a row of columns under a layout. len(Columns) always equals
// ColumnCountFor(LayoutType).
type Section struct {
	ID         string     `json:"id"`
	LayoutType LayoutType `json:"layoutType"`
	Columns    []Column   `json:"columns"`
}

// Document is one article body.
type Document struct {
	Sections []Section `json:"sections"`
}

// NewColumn returns an empty column with a fresh ID.
func NewColumn() Column {
	return Column{ID: NewID(), Blocks: []Block{}}
}

// NewSection allocates a section with the layout's number of empty columns.
func NewSection(layout LayoutType) (Section, error) {
	n, err := ColumnCountFor(layout)
	if err != nil {
		return Section{}, err
	}

	columns := make([]Column, n)
	for i := range columns {
		columns[i] = NewColumn()
	}
	return Section{ID: NewID(), LayoutType: layout, Columns: columns}, nil
}

// Widths returns the relative column widths of the section's layout.
func (s Section) Widths() []int {
	widths, err := WidthsFor(s.LayoutType)
	if err != nil {
		return nil
	}
	return widths
}

// BlockCount returns the number of blocks across all columns.
func (s Section) BlockCount() int {
	n := 0
	for _, c := range s.Columns {
		n += len(c.Blocks)
	}
	return n
}

// Empty reports whether the document has no blocks at all.
func (d Document) Empty() bool {
	for _, s := range d.Sections {
		if s.BlockCount() > 0 {
			return false
		}
	}
	return true
}

// Block returns the block at the given coordinates.
func (d Document) Block(section, column, block int) (Block, bool) {
	if section < 0 || section >= len(d.Sections) {
		return Block{}, false
	}
	s := d.Sections[section]
	if column < 0 || column >= len(s.Columns) {
		return Block{}, false
	}
	c := s.Columns[column]
	if block < 0 || block >= len(c.Blocks) {
		return Block{}, false
	}
	return c.Blocks[block], true
}

// BlockPatch carries the mutable fields of a block update. Nil fields are
// left unchanged. ID and Type may be echoed back by clients but must match
// the target block.
type BlockPatch struct {
	ID       *string    `json:"id,omitempty"`
	Type     *BlockType `json:"type,omitempty"`
	Content  *string    `json:"content,omitempty"`
	ImageURL *string    `json:"imageUrl,omitempty"`
	Caption  *string    `json:"caption,omitempty"`
	Language *string    `json:"language,omitempty"`
}

// String implements fmt.Stringer for logging.
func (p BlockPatch) String() string {
	fields := []string{}
	if p.Content != nil {
		fields = append(fields, "content")
	}
	if p.ImageURL != nil {
		fields = append(fields, "imageUrl")
	}
	if p.Caption != nil {
		fields = append(fields, "caption")
	}
	if p.Language != nil {
		fields = append(fields, "language")
	}
	return fmt.Sprintf("patch%v", fields)
}
