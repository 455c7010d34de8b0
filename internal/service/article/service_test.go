package article

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/models/blocks"
	"quill/internal/domain/services"
	editor "quill/internal/service/blocks"
)

func textDoc(t *testing.T, texts ...string) []blocks.Section {
	t.Helper()
	doc, err := editor.InsertSection(blocks.Document{}, blocks.LayoutFull, 0)
	require.NoError(t, err)
	for _, text := range texts {
		doc, err = editor.InsertBlockWithContent(doc, 0, 0, blocks.BlockTypeText, text)
		require.NoError(t, err)
	}
	return doc.Sections
}

func (f *fixture) create(t *testing.T, title string, texts ...string) *models.Article {
	t.Helper()
	a, err := f.svc.CreateArticle(context.Background(), &services.CreateArticleRequest{
		AuthorID: "user-1",
		Title:    title,
		Sections: textDoc(t, texts...),
	})
	require.NoError(t, err)
	return a
}

func TestCreateArticle(t *testing.T) {
	f := newFixture(t)

	a, err := f.svc.CreateArticle(context.Background(), &services.CreateArticleRequest{
		AuthorID: "user-1",
		Title:    "  Shipping Blocks, Not Blobs ",
		Tags:     []string{"Go", " go ", "cms", ""},
		Sections: textDoc(t, "Hello there", "second paragraph"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Shipping Blocks, Not Blobs", a.Title)
	assert.Equal(t, "shipping-blocks-not-blobs", a.Slug)
	assert.Equal(t, []string{"go", "cms"}, a.Tags)
	assert.Equal(t, models.ArticleStatusDraft, a.Status)
	assert.Equal(t, "Hello there\n\nsecond paragraph", a.Content)
	assert.Equal(t, 4, a.WordCount)
	assert.Equal(t, fixedNow, a.CreatedAt)
	assert.Nil(t, a.PublishedAt)
}

func TestCreateArticle_EmptyDocument(t *testing.T) {
	f := newFixture(t)

	a, err := f.svc.CreateArticle(context.Background(), &services.CreateArticleRequest{AuthorID: "u", Title: "Blank"})
	require.NoError(t, err)
	assert.NotNil(t, a.Sections)
	assert.Empty(t, a.Sections)
	assert.Equal(t, "", a.Content)
	assert.Zero(t, a.WordCount)
}

func TestCreateArticle_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  services.CreateArticleRequest
	}{
		{"missing title", services.CreateArticleRequest{AuthorID: "u"}},
		{"missing author", services.CreateArticleRequest{Title: "x"}},
		{"bad slug", services.CreateArticleRequest{AuthorID: "u", Title: "x", Slug: "Not A Slug"}},
		{"title without slug material", services.CreateArticleRequest{AuthorID: "u", Title: "!!!"}},
		{"long title", services.CreateArticleRequest{AuthorID: "u", Title: strings.Repeat("a", 256)}},
		{"bad cover url", services.CreateArticleRequest{AuthorID: "u", Title: "x", CoverImageURL: "javascript:alert(1)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.CreateArticle(context.Background(), &req)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateArticle_RejectsMalformedDocument(t *testing.T) {
	f := newFixture(t)

	sections := textDoc(t, "a")
	sections[0].LayoutType = blocks.LayoutTwoEqual

	_, err := f.svc.CreateArticle(context.Background(), &services.CreateArticleRequest{
		AuthorID: "u", Title: "Broken", Sections: sections,
	})
	var invalid *domain.InvalidDocumentError
	require.ErrorAs(t, err, &invalid)
	assert.Len(t, invalid.Issues, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateArticle_DuplicateSlug(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, "Same Title", "x")

	_, err := f.svc.CreateArticle(context.Background(), &services.CreateArticleRequest{AuthorID: "u", Title: "Same title"})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.ResourceID)
}

func TestUpdateArticle(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Draft", "old body")

	summary := "A teaser"
	_, err := f.svc.UpdateArticle(context.Background(), a.ID, &services.UpdateArticleRequest{
		Summary: models.OptionalText{Present: true, Value: &summary},
	})
	require.NoError(t, err)

	newSections := textDoc(t, "fresh words here")
	title := "Final Title"
	updated, err := f.svc.UpdateArticle(context.Background(), a.ID, &services.UpdateArticleRequest{
		Title:    &title,
		Sections: &newSections,
	})
	require.NoError(t, err)

	assert.Equal(t, "Final Title", updated.Title)
	assert.Equal(t, "draft", updated.Slug, "slug is not re-derived on rename")
	assert.Equal(t, "A teaser", updated.Summary, "absent field is kept")
	assert.Equal(t, "fresh words here", updated.Content)
	assert.Equal(t, 3, updated.WordCount)

	cleared, err := f.svc.UpdateArticle(context.Background(), a.ID, &services.UpdateArticleRequest{
		Summary: models.OptionalText{Present: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "", cleared.Summary)
}

func TestUpdateArticle_InvalidDocumentChangesNothing(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Keep", "body")

	bad := textDoc(t, "x")
	bad[0].Columns[0].Blocks[0].ID = bad[0].ID

	_, err := f.svc.UpdateArticle(context.Background(), a.ID, &services.UpdateArticleRequest{Sections: &bad})
	require.ErrorIs(t, err, domain.ErrValidation)

	stored, err := f.svc.GetArticle(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "body", stored.Content)
}

func TestUpdateArticle_NotFound(t *testing.T) {
	f := newFixture(t)
	title := "x"
	_, err := f.svc.UpdateArticle(context.Background(), "missing", &services.UpdateArticleRequest{Title: &title})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyOperations(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Ops", "intro")

	updated, err := f.svc.ApplyOperations(context.Background(), a.ID, []editor.Operation{
		{Op: editor.OpInsertSection, Layout: blocks.LayoutTwoEqual},
		{Op: editor.OpInsertBlock, Section: 1, Column: 0, BlockType: blocks.BlockTypeCode, Content: "print(1)"},
		{Op: editor.OpInsertBlock, Section: 1, Column: 1, BlockType: blocks.BlockTypeDivider},
	})
	require.NoError(t, err)
	assert.Equal(t, "intro\n\n```text\nprint(1)\n```\n\n---", updated.Content)
	assert.Equal(t, 1, updated.WordCount)

	stored, err := f.svc.GetArticle(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Content, stored.Content)
}

func TestApplyOperations_FailedBatchChangesNothing(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Atomic", "keep me")

	_, err := f.svc.ApplyOperations(context.Background(), a.ID, []editor.Operation{
		{Op: editor.OpDeleteBlock, Section: 0, Column: 0, Block: 0},
		{Op: editor.OpInsertBlock, Section: 3, BlockType: blocks.BlockTypeText},
	})
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	assert.True(t, domain.IsDocumentError(err))

	stored, err := f.svc.GetArticle(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", stored.Content)
}

func TestApplyOperations_EmptyBatch(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Empty batch", "x")

	_, err := f.svc.ApplyOperations(context.Background(), a.ID, nil)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAppendBlock(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Append", "first")

	updated, block, err := f.svc.AppendBlock(context.Background(), a.ID, 0, 0, blocks.BlockTypeQuote, "wise words")
	require.NoError(t, err)
	assert.Equal(t, blocks.BlockTypeQuote, block.Type)
	assert.NotEmpty(t, block.ID)
	assert.Equal(t, "first\n\n> wise words", updated.Content)

	_, _, err = f.svc.AppendBlock(context.Background(), a.ID, 1, 0, blocks.BlockTypeText, "nowhere")
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestPublishLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "Launch Notes", "We shipped.")

	_, err := f.svc.GetPublishedBySlug(ctx, "launch-notes")
	require.ErrorIs(t, err, domain.ErrNotFound, "drafts are hidden")

	published, err := f.svc.Publish(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished())
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, fixedNow, *published.PublishedAt)
	assert.True(t, f.index.has(a.ID))

	rendered, err := f.svc.RenderArticle(ctx, "launch-notes")
	require.NoError(t, err)
	assert.Contains(t, rendered.HTML, "<p>We shipped.</p>")
	assert.Contains(t, rendered.HTML, "section--full")

	_, err = f.svc.Unpublish(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, f.index.has(a.ID))
	_, err = f.svc.RenderArticle(ctx, "launch-notes")
	require.ErrorIs(t, err, domain.ErrNotFound)

	later := fixedNow.Add(48 * time.Hour)
	f.svc.(*articleService).now = func() time.Time { return later }
	republished, err := f.svc.Publish(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, *republished.PublishedAt, "original publish date is kept")
}

func TestPublish_RequiresContent(t *testing.T) {
	f := newFixture(t)

	a, err := f.svc.CreateArticle(context.Background(), &services.CreateArticleRequest{AuthorID: "u", Title: "Nothing yet"})
	require.NoError(t, err)

	_, err = f.svc.Publish(context.Background(), a.ID)
	var invalid *domain.InvalidDocumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"document has no blocks"}, invalid.Issues)
	assert.False(t, f.index.has(a.ID))

	blank := f.create(t, "Blank text", "   ")
	_, err = f.svc.Publish(context.Background(), blank.ID)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"document has no content"}, invalid.Issues)
}

func TestPublishedArticleCannotBeEmptied(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Live", "only block")
	_, err := f.svc.Publish(context.Background(), a.ID)
	require.NoError(t, err)

	_, err = f.svc.ApplyOperations(context.Background(), a.ID, []editor.Operation{
		{Op: editor.OpDeleteBlock, Section: 0, Column: 0, Block: 0},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSave_IndexFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Flaky index", "body")
	f.index.failing = true

	published, err := f.svc.Publish(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished())
}

func TestSave_RollbackLeavesIndexUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "Indexed", "We shipped.")
	_, err := f.svc.Publish(ctx, a.ID)
	require.NoError(t, err)

	errLater := errors.New("finish job")
	err = f.tx.ExecTx(ctx, func(txCtx context.Context) error {
		if _, _, err := f.svc.AppendBlock(txCtx, a.ID, 0, 0, blocks.BlockTypeText, "draft that never lands"); err != nil {
			return err
		}
		return errLater
	})
	require.ErrorIs(t, err, errLater)

	f.index.mu.Lock()
	indexed := f.index.entries[a.ID]
	f.index.mu.Unlock()
	assert.NotContains(t, indexed.Content, "never lands")

	stored, err := f.svc.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "We shipped.", stored.Content)

	_, _, err = f.svc.AppendBlock(ctx, a.ID, 0, 0, blocks.BlockTypeText, "second note")
	require.NoError(t, err)
	f.index.mu.Lock()
	indexed = f.index.entries[a.ID]
	f.index.mu.Unlock()
	assert.Contains(t, indexed.Content, "second note")
}

func TestSave_StampsUpdatedAtFromClock(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Clocked", "body")

	later := fixedNow.Add(time.Hour)
	f.svc.(*articleService).now = func() time.Time { return later }
	title := "Clocked again"
	updated, err := f.svc.UpdateArticle(context.Background(), a.ID, &services.UpdateArticleRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, fixedNow, updated.CreatedAt)
}

func TestDeleteArticle(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Doomed", "body")
	_, err := f.svc.Publish(context.Background(), a.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteArticle(context.Background(), a.ID))
	assert.False(t, f.index.has(a.ID))

	err = f.svc.DeleteArticle(context.Background(), a.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListArticles(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"One", "Two", "Three"} {
		f.create(t, title, "body")
	}

	page, err := f.svc.ListArticles(context.Background(), models.ArticleFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Nil(t, page.Items[0].Sections)

	page, err = f.svc.ListArticles(context.Background(), models.ArticleFilter{Limit: 1000, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, 0, page.Offset)

	_, err = f.svc.ListArticles(context.Background(), models.ArticleFilter{Status: "archived"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSearch_RequiresQuery(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Search(context.Background(), "   ", 10)
	require.ErrorIs(t, err, domain.ErrValidation)
}
