package actorctx

import (
	"context"
)

type userIDKey struct{}

// WithUserID records the authenticated user on a request context so code
// below the HTTP layer can see who is acting.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserIDFrom(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(userIDKey{}).(int64)

	return v, ok && v > 0
}
