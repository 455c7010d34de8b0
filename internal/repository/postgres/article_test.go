package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain"
	"quill/internal/domain/models/blocks"
)

func TestSectionsJSONB(t *testing.T) {
	sections := []blocks.Section{{
		ID:         "s1",
		LayoutType: blocks.LayoutTwoLeft,
		Columns: []blocks.Column{
			{ID: "c1", Blocks: []blocks.Block{{ID: "b1", Type: blocks.BlockTypeImage, ImageURL: "/a.png", Caption: "A"}}},
			{ID: "c2", Blocks: []blocks.Block{}},
		},
	}}

	data, err := encodeSections(sections)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"layoutType":"two-left"`)
	assert.Contains(t, string(data), `"imageUrl":"/a.png"`)

	decoded, err := decodeSections(data)
	require.NoError(t, err)
	assert.Equal(t, sections, decoded)
}

func TestSectionsJSONB_Empty(t *testing.T) {
	data, err := encodeSections(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	decoded, err := decodeSections(nil)
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)

	_, err = decodeSections([]byte(`{"not":"a list"}`))
	assert.ErrorContains(t, err, "decode sections")
}

func TestNonNilTags(t *testing.T) {
	assert.Equal(t, []string{}, nonNilTags(nil))
	assert.Equal(t, []string{"go"}, nonNilTags([]string{"go"}))
}

func TestSlugConflict(t *testing.T) {
	assert.NoError(t, slugConflict("hello", "", "a1"))
	assert.NoError(t, slugConflict("hello", "a1", "a1"))

	err := slugConflict("hello", "a2", "a1")
	var conflictErr *domain.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "a2", conflictErr.ResourceID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Create passes no id of its own
	assert.Error(t, slugConflict("hello", "a2", ""))
}
