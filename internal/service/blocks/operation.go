package blocks

import (
	"fmt"

	"quill/internal/domain"
	models "quill/internal/domain/models/blocks"
)

// OpKind names an editor operation in a batch.
type OpKind string

const (
	OpInsertSection OpKind = "insertSection"
	OpMoveSection   OpKind = "moveSection"
	OpDeleteSection OpKind = "deleteSection"
	OpChangeLayout  OpKind = "changeLayout"
	OpInsertBlock   OpKind = "insertBlock"
	OpUpdateBlock   OpKind = "updateBlock"
	OpDeleteBlock   OpKind = "deleteBlock"
	OpMoveBlock     OpKind = "moveBlock"
	OpUndo          OpKind = "undo"
	OpRedo          OpKind = "redo"
)

// Operation is one editor command as sent by the admin editor, e.g.
//
//	{"op":"insertBlock","section":0,"column":1,"blockType":"code"}
//	{"op":"updateBlock","section":0,"column":1,"block":0,"patch":{"content":"x"}}
type Operation struct {
	Op OpKind `json:"op"`

	Section int `json:"section"`
	Column  int `json:"column"`
	Block   int `json:"block"`

	// Index is the insertion point for insertSection (absent = append) and
	// the target for deleteSection.
	Index *int `json:"index,omitempty"`
	From  int  `json:"from"`
	To    int  `json:"to"`

	Layout    models.LayoutType  `json:"layout,omitempty"`
	BlockType models.BlockType   `json:"blockType,omitempty"`
	Content   string             `json:"content,omitempty"`
	Patch     *models.BlockPatch `json:"patch,omitempty"`
}

// apply runs a document-transforming operation. undo/redo are handled by
// ApplyAll since they act on the session history, not a document.
func (op Operation) apply(doc models.Document) (models.Document, error) {
	switch op.Op {
	case OpInsertSection:
		at := len(doc.Sections)
		if op.Index != nil {
			at = *op.Index
		}
		return InsertSection(doc, op.Layout, at)
	case OpMoveSection:
		return MoveSection(doc, op.From, op.To)
	case OpDeleteSection:
		if op.Index == nil {
			return doc, fmt.Errorf("%w: deleteSection requires index", domain.ErrValidation)
		}
		return DeleteSection(doc, *op.Index)
	case OpChangeLayout:
		return ChangeLayout(doc, op.Section, op.Layout)
	case OpInsertBlock:
		return InsertBlockWithContent(doc, op.Section, op.Column, op.BlockType, op.Content)
	case OpUpdateBlock:
		if op.Patch == nil {
			return doc, fmt.Errorf("%w: updateBlock requires patch", domain.ErrValidation)
		}
		return UpdateBlock(doc, op.Section, op.Column, op.Block, *op.Patch)
	case OpDeleteBlock:
		return DeleteBlock(doc, op.Section, op.Column, op.Block)
	case OpMoveBlock:
		return MoveBlockWithinColumn(doc, op.Section, op.Column, op.From, op.To)
	default:
		return doc, fmt.Errorf("%w: unknown operation %q", domain.ErrValidation, op.Op)
	}
}

// ApplyAll applies a batch of operations in order. The batch is atomic: the
// first failing operation aborts it and the input document is returned
// unchanged together with the error.
func ApplyAll(doc models.Document, ops []Operation) (models.Document, error) {
	h := NewHistory(doc, len(ops))
	for i, op := range ops {
		switch op.Op {
		case OpUndo:
			h.Undo()
		case OpRedo:
			h.Redo()
		default:
			if err := h.Apply(op.apply); err != nil {
				return doc, fmt.Errorf("operation %d (%s): %w", i, op.Op, err)
			}
		}
	}
	return h.Current(), nil
}
