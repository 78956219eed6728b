package httpapi

import "context"

type privilegedKey struct{}

func WithPrivileged(ctx context.Context, v bool) context.Context {
	return context.WithValue(ctx, privilegedKey{}, v)
}

func PrivilegedFromContext(ctx context.Context) bool {
	v, ok := ctx.Value(privilegedKey{}).(bool)
	return ok && v
}
