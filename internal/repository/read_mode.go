package repository

import "context"

type freshReadKey struct{}

// WithFreshRead marks reads on ctx as needing the primary store. Caching
// decorators must bypass their cache for such reads.
func WithFreshRead(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshReadKey{}, true)
}

// FreshRead reports whether ctx was marked by WithFreshRead.
func FreshRead(ctx context.Context) bool {
	v, _ := ctx.Value(freshReadKey{}).(bool)
	return v
}
