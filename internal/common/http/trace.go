package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/croftbar/member-portal/internal/common/trace"
)

const traceIDHeader = "X-Trace-ID"

func TraceIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		w.Header().Set(traceIDHeader, traceID)

		ctx := trace.NewContext(r.Context(), traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
