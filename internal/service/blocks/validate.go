package blocks

import (
	"fmt"

	models "quill/internal/domain/models/blocks"
)

// Issue is one structural problem found in a document.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Validate inspects a document loaded from storage or posted by a client
// and reports every structural problem. It never fails; publishing refuses
// documents with issues while the editor can still open them.
func Validate(doc models.Document) []Issue {
	var issues []Issue
	seen := make(map[string]string)

	checkID := func(path, id string) {
		if id == "" {
			issues = append(issues, Issue{Path: path, Message: "missing id"})
			return
		}
		if prev, dup := seen[id]; dup {
			issues = append(issues, Issue{Path: path, Message: fmt.Sprintf("duplicate id %q (also at %s)", id, prev)})
			return
		}
		seen[id] = path
	}

	for si, section := range doc.Sections {
		sp := fmt.Sprintf("sections[%d]", si)
		checkID(sp, section.ID)

		want, err := models.ColumnCountFor(section.LayoutType)
		if err != nil {
			issues = append(issues, Issue{Path: sp, Message: err.Error()})
		} else if len(section.Columns) != want {
			issues = append(issues, Issue{
				Path:    sp,
				Message: fmt.Sprintf("layout %s requires %d columns, has %d", section.LayoutType, want, len(section.Columns)),
			})
		}

		for ci, column := range section.Columns {
			cp := fmt.Sprintf("%s.columns[%d]", sp, ci)
			checkID(cp, column.ID)

			for bi, block := range column.Blocks {
				bp := fmt.Sprintf("%s.blocks[%d]", cp, bi)
				checkID(bp, block.ID)
				if !block.Type.Valid() {
					issues = append(issues, Issue{Path: bp, Message: fmt.Sprintf("unknown block type %q", block.Type)})
				}
			}
		}
	}
	return issues
}
