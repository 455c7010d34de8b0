package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommit(t *testing.T) {
	t.Run("runs immediately outside a transaction", func(t *testing.T) {
		ran := false
		AfterCommit(context.Background(), func(context.Context) { ran = true })
		assert.True(t, ran)
	})

	t.Run("waits for the hooks to run", func(t *testing.T) {
		ctx, hooks := WithCommitHooks(context.Background())
		var order []string
		AfterCommit(ctx, func(context.Context) { order = append(order, "first") })
		AfterCommit(ctx, func(context.Context) { order = append(order, "second") })
		assert.Empty(t, order)
		assert.Same(t, hooks, CommitHooksFrom(ctx))

		hooks.Run(context.Background())
		assert.Equal(t, []string{"first", "second"}, order)

		hooks.Run(context.Background())
		assert.Len(t, order, 2, "hooks run once")
	})

	t.Run("dropped when never run", func(t *testing.T) {
		ctx, _ := WithCommitHooks(context.Background())
		ran := false
		AfterCommit(ctx, func(context.Context) { ran = true })
		assert.False(t, ran)
	})
}
