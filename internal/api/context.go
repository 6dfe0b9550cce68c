package api

import (
	"context"

	"github.com/cragline/modcatalog/internal/models"
)

type contextKey string

const clientContextKey contextKey = "api_client"

// ClientFromContext extracts ApiClient from context
func ClientFromContext(ctx context.Context) *models.ApiClient {
	client, ok := ctx.Value(clientContextKey).(*models.ApiClient)
	if !ok {
		return nil
	}
	return client
}

// ContextWithClient adds ApiClient to context
func ContextWithClient(ctx context.Context, client *models.ApiClient) context.Context {
	return context.WithValue(ctx, clientContextKey, client)
}

// ActorFromContext returns the site user id the authenticated client acts
// as. Zero means unauthenticated; handlers behind auth never see that.
func ActorFromContext(ctx context.Context) int64 {
	client := ClientFromContext(ctx)
	if client == nil {
		return 0
	}
	return client.UserID
}
