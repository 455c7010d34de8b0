package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain"
)

func TestNewSection_ColumnCount(t *testing.T) {
	tests := []struct {
		layout  LayoutType
		columns int
		widths  []int
	}{
		{LayoutFull, 1, []int{100}},
		{LayoutTwoEqual, 2, []int{50, 50}},
		{LayoutTwoLeft, 2, []int{70, 30}},
		{LayoutTwoRight, 2, []int{30, 70}},
		{LayoutThreeEqual, 3, []int{33, 34, 33}},
	}

	for _, tt := range tests {
		t.Run(string(tt.layout), func(t *testing.T) {
			s, err := NewSection(tt.layout)
			require.NoError(t, err)

			assert.Len(t, s.Columns, tt.columns)
			assert.Equal(t, tt.widths, s.Widths())
			assert.NotEmpty(t, s.ID)
			for _, c := range s.Columns {
				assert.NotEmpty(t, c.ID)
				assert.Empty(t, c.Blocks)
			}
		})
	}
}

func TestNewSection_InvalidLayout(t *testing.T) {
	_, err := NewSection("four-equal")
	require.ErrorIs(t, err, domain.ErrInvalidLayout)

	_, err = ColumnCountFor("")
	require.ErrorIs(t, err, domain.ErrInvalidLayout)
	assert.ErrorContains(t, err, "[full two-equal two-left two-right three-equal]")
}

func TestLayouts_AllHaveWidths(t *testing.T) {
	for _, l := range Layouts() {
		assert.True(t, l.Valid(), l)
		n, err := ColumnCountFor(l)
		require.NoError(t, err)
		widths, err := WidthsFor(l)
		require.NoError(t, err)
		assert.Len(t, widths, n)
	}
	assert.Len(t, Layouts(), len(layoutWidths))
}

func TestWidthsFor_ReturnsCopy(t *testing.T) {
	widths, err := WidthsFor(LayoutTwoLeft)
	require.NoError(t, err)
	widths[0] = 1

	again, err := WidthsFor(LayoutTwoLeft)
	require.NoError(t, err)
	assert.Equal(t, []int{70, 30}, again)
}

func TestNewBlock_Defaults(t *testing.T) {
	text, err := NewBlock(BlockTypeText, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", text.Content)
	assert.NotEmpty(t, text.ID)

	code, err := NewBlock(BlockTypeCode, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCodeLanguage, code.Language)

	img, err := NewBlock(BlockTypeImage, "")
	require.NoError(t, err)
	assert.Equal(t, "", img.ImageURL)
	assert.Equal(t, "", img.Caption)

	div, err := NewBlock(BlockTypeDivider, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "", div.Content)

	_, err = NewBlock("video", "")
	require.ErrorIs(t, err, domain.ErrInvalidBlockType)
}

func TestNewBlock_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		b, err := NewBlock(BlockTypeText, "")
		require.NoError(t, err)
		require.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
	}
}

type recordingVisitor struct {
	calls []BlockType
}

func (v *recordingVisitor) Text(b Block)     { v.calls = append(v.calls, BlockTypeText) }
func (v *recordingVisitor) Image(b Block)    { v.calls = append(v.calls, BlockTypeImage) }
func (v *recordingVisitor) Code(b Block)     { v.calls = append(v.calls, BlockTypeCode) }
func (v *recordingVisitor) Quote(b Block)    { v.calls = append(v.calls, BlockTypeQuote) }
func (v *recordingVisitor) Divider(b Block)  { v.calls = append(v.calls, BlockTypeDivider) }
func (v *recordingVisitor) FileTree(b Block) { v.calls = append(v.calls, BlockTypeFileTree) }

func TestBlock_Accept(t *testing.T) {
	v := &recordingVisitor{}
	for _, bt := range BlockTypes() {
		require.NoError(t, Block{Type: bt}.Accept(v))
	}
	assert.Equal(t, BlockTypes(), v.calls)

	err := Block{Type: "embed"}.Accept(v)
	require.ErrorIs(t, err, domain.ErrInvalidBlockType)
	assert.Len(t, v.calls, len(BlockTypes()))
}

func TestDocument_Empty(t *testing.T) {
	assert.True(t, Document{}.Empty())

	s, err := NewSection(LayoutTwoEqual)
	require.NoError(t, err)
	doc := Document{Sections: []Section{s}}
	assert.True(t, doc.Empty())

	doc.Sections[0].Columns[1].Blocks = []Block{{ID: "b1", Type: BlockTypeDivider}}
	assert.False(t, doc.Empty())
}
