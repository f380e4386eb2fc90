package httpx

import "context"

type ctxKey string

const CtxKeyLocalID ctxKey = "local_id"

// WithLocalID records the signed-in local id on the request context.
func WithLocalID(ctx context.Context, localID string) context.Context {
	return context.WithValue(ctx, CtxKeyLocalID, localID)
}

// LocalIDFromContext returns the signed-in local id, or "" when anonymous.
func LocalIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyLocalID).(string); ok {
		return v
	}
	return ""
}
