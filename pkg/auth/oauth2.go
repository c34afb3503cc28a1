package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// NewBearerClient returns a client that sends accessToken as a bearer token.
// base supplies the underlying transport and timeout.
func NewBearerClient(ctx context.Context, base *http.Client, accessToken string) *http.Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	client := oauth2.NewClient(ctx, source)
	if base != nil {
		client.Timeout = base.Timeout
	}
	return client
}
