package trace

import "context"

type contextKey string

const idKey contextKey = "trace_id"

func NewContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, idKey, traceID)
}

func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(idKey).(string)
	return id
}
