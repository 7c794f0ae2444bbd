package session

import "context"

type ctxKey int

const sessionKey ctxKey = 0

// WithContext attaches a loaded session to the request context.
func WithContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// FromContext returns the session the middleware loaded, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*Session)
	return sess, ok
}
