// Package auth signs HTTP requests with OAuth1.0 credentials and runs the
// three-legged handshake that obtains them.
//
// # Handshake
//
// A Handshake walks the token flow of RFC 5849:
//
//	h := auth.NewHandshake(auth.Consumer{Key: app.PublicKey, Secret: app.SecretKey})
//	if _, err := h.RequestToken(ctx, provider.RequestTokenURL, provider.RequestTokenMethod); err != nil {
//	    return err
//	}
//	link, _ := auth.AuthorizeURL(provider.AuthURL, h.Pending().Token, "")
//	// the user visits link and reads back a verifier
//	access, err := h.AccessToken(ctx, provider.AccessTokenURL, provider.AccessTokenMethod, verifier)
//
// Both token requests must answer HTTP 200 with a form-encoded body holding
// oauth_token and oauth_token_secret; anything else is a *HandshakeError.
//
// # Signing requests
//
// All protocol parameters, including the HMAC-SHA1 signature, travel in the
// query string. An Authenticator signs one request; NewClient wraps an
// http.Client so every request it sends is signed:
//
//	client := auth.NewClient(http.DefaultClient, auth.NewOAuth1(consumer, access))
//	resp, err := client.Get("https://api.example.com/v1/me")
//
// Providers declared as OAuth2.0 use NewBearerClient with a stored access
// token instead.
package auth

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// Authenticator adds credentials to an outgoing request.
type Authenticator interface {
	Authenticate(req *http.Request) error
}

// OAuth1 signs requests with a consumer and an access token.
type OAuth1 struct {
	signer *Signer
	token  Credentials
}

// NewOAuth1 creates an authenticator for consumer and token.
func NewOAuth1(consumer Consumer, token Credentials) *OAuth1 {
	return &OAuth1{signer: NewSigner(consumer), token: token}
}

// WithSigner replaces the signer, keeping its consumer.
func (a *OAuth1) WithSigner(signer *Signer) *OAuth1 {
	a.signer = signer
	return a
}

// Authenticate rewrites the request URL with the signed query. Form-encoded
// bodies are included in the signature.
func (a *OAuth1) Authenticate(req *http.Request) error {
	body, err := formBody(req)
	if err != nil {
		return err
	}

	signed, err := a.signer.SignURL(req.Method, req.URL.String(), &a.token, nil, body)
	if err != nil {
		return err
	}

	u, err := url.Parse(signed)
	if err != nil {
		return fmt.Errorf("failed to parse signed url: %w", err)
	}
	req.URL = u
	return nil
}

// formBody reads and restores a form-encoded request body.
func formBody(req *http.Request) (url.Values, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		return nil, nil
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	values, err := url.ParseQuery(string(data))
	if err != nil {
		// Not a parseable form; sign without it.
		return nil, nil
	}
	return values, nil
}

// Transport is an http.RoundTripper that authenticates each request before
// passing it to Base.
type Transport struct {
	Base http.RoundTripper
	Auth Authenticator
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if err := t.Auth.Authenticate(clone); err != nil {
		return nil, fmt.Errorf("failed to authenticate request: %w", err)
	}
	return t.base().RoundTrip(clone)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// NewClient returns a copy of client whose requests are authenticated.
func NewClient(client *http.Client, a Authenticator) *http.Client {
	if client == nil {
		client = http.DefaultClient
	}
	c := *client
	c.Transport = &Transport{Base: client.Transport, Auth: a}
	return &c
}
