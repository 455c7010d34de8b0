package repositories

import (
	"context"
	"sync"
)

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}

type commitHooksKey struct{}

// CommitHooks collects work that must only happen once the outermost
// transaction has committed, such as updating an external search index.
type CommitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// WithCommitHooks attaches an empty hook list to ctx
func WithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	hooks := &CommitHooks{}
	return context.WithValue(ctx, commitHooksKey{}, hooks), hooks
}

// CommitHooksFrom returns the hooks of the transaction in ctx, or nil
func CommitHooksFrom(ctx context.Context) *CommitHooks {
	hooks, _ := ctx.Value(commitHooksKey{}).(*CommitHooks)
	return hooks
}

// AfterCommit defers fn until the surrounding transaction commits. Outside
// a transaction fn runs immediately. A rolled-back transaction drops it.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	hooks := CommitHooksFrom(ctx)
	if hooks == nil {
		fn(ctx)
		return
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}

// Run calls the collected hooks in registration order
func (h *CommitHooks) Run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()
	for _, fn := range fns {
		fn(ctx)
	}
}
