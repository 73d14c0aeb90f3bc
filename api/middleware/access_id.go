package middleware

import "context"

const ctxAccessID contextKey = "access_id"

func withAccessID(ctx context.Context, accessID string) context.Context {
	return context.WithValue(ctx, ctxAccessID, accessID)
}

// AccessIDFromContext returns the JWT jti of the authenticated request, used
// by logout to revoke the matching session.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}
