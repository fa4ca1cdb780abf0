package utils

import (
	"context"
)

type contextKey string

const (
	RequesterIDKey contextKey = "requester_id"
)

// GetRequesterIDFromContext returns the identity the gateway resolved for
// this request, if any. Query visibility widens when it is present.
func GetRequesterIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(RequesterIDKey)
	if val == nil {
		return "", false
	}

	id, ok := val.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

func SetRequesterContext(ctx context.Context, requesterID string) context.Context {
	return context.WithValue(ctx, RequesterIDKey, requesterID)
}
