package blocks

import (
	models "quill/internal/domain/models/blocks"
)

// DefaultHistoryLimit bounds how many prior documents a History retains.
const DefaultHistoryLimit = 100

// History is the editing-session state: the current document plus the
// values it replaced. Every edit pushes the previous document, so undo and
// redo are just swaps between retained values. Not safe for concurrent use;
// a session has a single writer.
type History struct {
	past    []models.Document
	present models.Document
	future  []models.Document
	limit   int
}

// NewHistory starts a session at doc. A limit <= 0 uses DefaultHistoryLimit.
func NewHistory(doc models.Document, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{present: doc, limit: limit}
}

// Current returns the present document.
func (h *History) Current() models.Document {
	return h.present
}

// Apply runs an edit against the present document. On success the result
// becomes the present and the redo stack is cleared; on error nothing
// changes.
func (h *History) Apply(edit func(models.Document) (models.Document, error)) error {
	next, err := edit(h.present)
	if err != nil {
		return err
	}
	h.past = append(h.past, h.present)
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	h.present = next
	h.future = nil
	return nil
}

// Undo steps back one edit. Returns false when there is nothing to undo.
func (h *History) Undo() bool {
	if len(h.past) == 0 {
		return false
	}
	h.future = append(h.future, h.present)
	h.present = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return true
}

// Redo re-applies the last undone edit. Returns false when there is nothing
// to redo.
func (h *History) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	h.past = append(h.past, h.present)
	h.present = h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	return true
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }
