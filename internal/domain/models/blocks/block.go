package blocks

import (
	"fmt"

	"quill/internal/domain"
)

// BlockType is the discriminant of a Block.
type BlockType string

const (
	BlockTypeText     BlockType = "text"
	BlockTypeImage    BlockType = "image"
	BlockTypeCode     BlockType = "code"
	BlockTypeQuote    BlockType = "quote"
	BlockTypeDivider  BlockType = "divider"
	BlockTypeFileTree BlockType = "file-tree"
)

// DefaultCodeLanguage is assigned to new code blocks.
const DefaultCodeLanguage = "text"

// BlockTypes returns every supported block type in a stable order.
func BlockTypes() []BlockType {
	return []BlockType{
		BlockTypeText,
		BlockTypeImage,
		BlockTypeCode,
		BlockTypeQuote,
		BlockTypeDivider,
		BlockTypeFileTree,
	}
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeText, BlockTypeImage, BlockTypeCode, BlockTypeQuote, BlockTypeDivider, BlockTypeFileTree:
		return true
	}
	return false
}

// Block is the smallest unit of article content.
//
// Only the fields relevant to Type are meaningful:
//   - text, quote, file-tree: Content
//   - image: ImageURL, Caption (Content is a caption fallback)
//   - code: Content, Language
//   - divider: none
type Block struct {
	ID       string    `json:"id"`
	Type     BlockType `json:"type"`
	Content  string    `json:"content"`
	ImageURL string    `json:"imageUrl,omitempty"`
	Caption  string    `json:"caption,omitempty"`
	Language string    `json:"language,omitempty"`
}

// NewBlock allocates a block with a fresh ID and the type's defaults.
func NewBlock(t BlockType, initialContent string) (Block, error) {
	if !t.Valid() {
		return Block{}, fmt.Errorf("%w: %q", domain.ErrInvalidBlockType, t)
	}

	b := Block{ID: NewID(), Type: t}
	if t != BlockTypeDivider {
		b.Content = initialContent
	}
	if t == BlockTypeCode {
		b.Language = DefaultCodeLanguage
	}
	return b, nil
}

// Visitor receives a block dispatched on its type. Compiler, renderer and
// validator all go through Accept, so a new block type only needs a new
// method here and the compiler flags every visitor missing it.
type Visitor interface {
	Text(b Block)
	Image(b Block)
	Code(b Block)
	Quote(b Block)
	Divider(b Block)
	FileTree(b Block)
}

// Accept dispatches b to the matching Visitor method. Unknown types are
// reported as ErrInvalidBlockType and the visitor is not called.
func (b Block) Accept(v Visitor) error {
	switch b.Type {
	case BlockTypeText:
		v.Text(b)
	case BlockTypeImage:
		v.Image(b)
	case BlockTypeCode:
		v.Code(b)
	case BlockTypeQuote:
		v.Quote(b)
	case BlockTypeDivider:
		v.Divider(b)
	case BlockTypeFileTree:
		v.FileTree(b)
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidBlockType, b.Type)
	}
	return nil
}
