package blocks

import (
	"fmt"

	"quill/internal/domain"
	models "quill/internal/domain/models/blocks"
)

// Every operation in this file is copy-on-write: the input document is
// never modified, and only the slices on the edited path are reallocated.
// Untouched sections, columns and blocks are shared with the input, which is
// safe because nothing mutates them in place.

// InsertSection creates a section with the given layout and inserts it at
// atIndex, which must be within [0, len(sections)]; len appends.
func InsertSection(doc models.Document, layout models.LayoutType, atIndex int) (models.Document, error) {
	n := len(doc.Sections)
	if atIndex < 0 || atIndex > n {
		return doc, outOfRange("section insertion index", atIndex, n+1)
	}

	section, err := models.NewSection(layout)
	if err != nil {
		return doc, err
	}

	sections := make([]models.Section, 0, n+1)
	sections = append(sections, doc.Sections[:atIndex]...)
	sections = append(sections, section)
	sections = append(sections, doc.Sections[atIndex:]...)
	return models.Document{Sections: sections}, nil
}

// MoveSection relocates the section at from so that it ends up at index to.
func MoveSection(doc models.Document, from, to int) (models.Document, error) {
	n := len(doc.Sections)
	if err := checkIndex("section", from, n); err != nil {
		return doc, err
	}
	if err := checkIndex("section", to, n); err != nil {
		return doc, err
	}
	if from == to {
		return doc, nil
	}
	return models.Document{Sections: move(doc.Sections, from, to)}, nil
}

// DeleteSection removes the section at index. Removing the last section
// leaves a valid empty document.
func DeleteSection(doc models.Document, index int) (models.Document, error) {
	if err := checkIndex("section", index, len(doc.Sections)); err != nil {
		return doc, err
	}
	return models.Document{Sections: remove(doc.Sections, index)}, nil
}

// ChangeLayout switches a section to another layout and reconciles its
// columns. Growing pads with empty columns. Shrinking appends the blocks of
// every dropped column, in order, to the last surviving column, so no block
// is ever lost.
func ChangeLayout(doc models.Document, sectionIndex int, layout models.LayoutType) (models.Document, error) {
	if err := checkIndex("section", sectionIndex, len(doc.Sections)); err != nil {
		return doc, err
	}
	want, err := models.ColumnCountFor(layout)
	if err != nil {
		return doc, err
	}

	section := doc.Sections[sectionIndex]
	if section.LayoutType == layout && len(section.Columns) == want {
		return doc, nil
	}

	columns := make([]models.Column, 0, max(want, len(section.Columns)))
	columns = append(columns, section.Columns...)

	for len(columns) < want {
		columns = append(columns, models.NewColumn())
	}
	if len(columns) > want {
		last := columns[want-1]
		merged := make([]models.Block, 0, len(last.Blocks))
		merged = append(merged, last.Blocks...)
		for _, dropped := range columns[want:] {
			merged = append(merged, dropped.Blocks...)
		}
		last.Blocks = merged
		columns[want-1] = last
		columns = columns[:want]
	}

	section.LayoutType = layout
	section.Columns = columns
	return replaceSection(doc, sectionIndex, section), nil
}

// InsertBlock appends a new empty block of the given type to a column.
func InsertBlock(doc models.Document, sectionIndex, columnIndex int, blockType models.BlockType) (models.Document, error) {
	return InsertBlockWithContent(doc, sectionIndex, columnIndex, blockType, "")
}

// InsertBlockWithContent appends a new block carrying initial content, as
// used for generated or imported text.
func InsertBlockWithContent(doc models.Document, sectionIndex, columnIndex int, blockType models.BlockType, content string) (models.Document, error) {
	return editColumn(doc, sectionIndex, columnIndex, func(blocks []models.Block) ([]models.Block, error) {
		block, err := models.NewBlock(blockType, content)
		if err != nil {
			return nil, err
		}
		out := make([]models.Block, 0, len(blocks)+1)
		out = append(out, blocks...)
		return append(out, block), nil
	})
}

// UpdateBlock applies patch to the mutable fields of a block. A patch that
// names a different id or type fails with ErrImmutableField.
func UpdateBlock(doc models.Document, sectionIndex, columnIndex, blockIndex int, patch models.BlockPatch) (models.Document, error) {
	return editColumn(doc, sectionIndex, columnIndex, func(blocks []models.Block) ([]models.Block, error) {
		if err := checkIndex("block", blockIndex, len(blocks)); err != nil {
			return nil, err
		}

		block := blocks[blockIndex]
		if patch.ID != nil && *patch.ID != block.ID {
			return nil, fmt.Errorf("%w: id", domain.ErrImmutableField)
		}
		if patch.Type != nil && *patch.Type != block.Type {
			return nil, fmt.Errorf("%w: type (%s -> %s)", domain.ErrImmutableField, block.Type, *patch.Type)
		}

		if patch.Content != nil {
			block.Content = *patch.Content
		}
		if patch.ImageURL != nil {
			block.ImageURL = *patch.ImageURL
		}
		if patch.Caption != nil {
			block.Caption = *patch.Caption
		}
		if patch.Language != nil {
			block.Language = *patch.Language
		}

		out := make([]models.Block, len(blocks))
		copy(out, blocks)
		out[blockIndex] = block
		return out, nil
	})
}

// DeleteBlock removes one block; later blocks shift down by one.
func DeleteBlock(doc models.Document, sectionIndex, columnIndex, blockIndex int) (models.Document, error) {
	return editColumn(doc, sectionIndex, columnIndex, func(blocks []models.Block) ([]models.Block, error) {
		if err := checkIndex("block", blockIndex, len(blocks)); err != nil {
			return nil, err
		}
		return remove(blocks, blockIndex), nil
	})
}

// MoveBlockWithinColumn reorders blocks inside one column. Moving across
// columns is a DeleteBlock followed by an insert at the call site.
func MoveBlockWithinColumn(doc models.Document, sectionIndex, columnIndex, from, to int) (models.Document, error) {
	return editColumn(doc, sectionIndex, columnIndex, func(blocks []models.Block) ([]models.Block, error) {
		if err := checkIndex("block", from, len(blocks)); err != nil {
			return nil, err
		}
		if err := checkIndex("block", to, len(blocks)); err != nil {
			return nil, err
		}
		if from == to {
			return blocks, nil
		}
		return move(blocks, from, to), nil
	})
}

// editColumn resolves a column, hands its blocks to fn and rebuilds the
// path from the document root down to that column around fn's result.
func editColumn(doc models.Document, sectionIndex, columnIndex int, fn func([]models.Block) ([]models.Block, error)) (models.Document, error) {
	if err := checkIndex("section", sectionIndex, len(doc.Sections)); err != nil {
		return doc, err
	}
	section := doc.Sections[sectionIndex]
	if err := checkIndex("column", columnIndex, len(section.Columns)); err != nil {
		return doc, err
	}

	blocks, err := fn(section.Columns[columnIndex].Blocks)
	if err != nil {
		return doc, err
	}

	columns := make([]models.Column, len(section.Columns))
	copy(columns, section.Columns)
	columns[columnIndex].Blocks = blocks
	section.Columns = columns

	return replaceSection(doc, sectionIndex, section), nil
}

func replaceSection(doc models.Document, index int, section models.Section) models.Document {
	sections := make([]models.Section, len(doc.Sections))
	copy(sections, doc.Sections)
	sections[index] = section
	return models.Document{Sections: sections}
}

func checkIndex(what string, i, n int) error {
	if i < 0 || i >= n {
		return outOfRange(what, i, n)
	}
	return nil
}

func outOfRange(what string, i, n int) error {
	return fmt.Errorf("%w: %s %d (valid 0..%d)", domain.ErrIndexOutOfRange, what, i, n-1)
}

// move returns a new slice with items[from] relocated to index to.
func move[T any](items []T, from, to int) []T {
	out := make([]T, 0, len(items))
	moved := items[from]
	for i, item := range items {
		if i == from {
			continue
		}
		if len(out) == to {
			out = append(out, moved)
		}
		out = append(out, item)
	}
	if len(out) == to {
		out = append(out, moved)
	}
	return out
}

// remove returns a new slice without items[i].
func remove[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
