package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies request_id and user_id from the event context.
type ContextHook struct{}

func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if requestID := GetRequestID(ctx); requestID != "" {
		e.Str("request_id", requestID)
	}

	if userID := GetUserID(ctx); userID != 0 {
		e.Uint("user_id", userID)
	}
}
