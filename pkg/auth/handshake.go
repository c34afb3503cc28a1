package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// maxTokenResponse bounds how much of a token endpoint response is read.
const maxTokenResponse = 1 << 20

// Handshake obtains an access token in three steps: RequestToken, then
// AuthorizeURL for the user to visit, then AccessToken with the verifier the
// provider displayed.
type Handshake struct {
	signer       *Signer
	client       *http.Client
	logger       *zap.Logger
	requestToken *Credentials
}

// HandshakeOption configures a Handshake.
type HandshakeOption func(*Handshake)

// WithHTTPClient sets the client used for token requests.
func WithHTTPClient(client *http.Client) HandshakeOption {
	return func(h *Handshake) {
		h.client = client
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *zap.Logger) HandshakeOption {
	return func(h *Handshake) {
		h.logger = logger
	}
}

// WithSigner replaces the default signer, e.g. to pin nonce and clock.
func WithSigner(signer *Signer) HandshakeOption {
	return func(h *Handshake) {
		h.signer = signer
	}
}

// NewHandshake creates a handshake for the consumer.
func NewHandshake(consumer Consumer, opts ...HandshakeOption) *Handshake {
	h := &Handshake{
		signer: NewSigner(consumer),
		client: http.DefaultClient,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RequestToken fetches a temporary request token.
func (h *Handshake) RequestToken(ctx context.Context, endpoint, method string) (*Credentials, error) {
	creds, err := h.fetch(ctx, PhaseRequestToken, endpoint, method, nil, nil)
	if err != nil {
		return nil, err
	}
	h.requestToken = creds
	return creds, nil
}

// Pending returns the request token obtained by RequestToken.
func (h *Handshake) Pending() *Credentials {
	return h.requestToken
}

// AccessToken exchanges the request token and verifier for an access token.
func (h *Handshake) AccessToken(ctx context.Context, endpoint, method, verifier string) (*Credentials, error) {
	if h.requestToken == nil {
		return nil, ErrNoRequestToken
	}

	extra := url.Values{}
	if verifier != "" {
		extra.Set(ParamVerifier, verifier)
	}
	return h.fetch(ctx, PhaseAccessToken, endpoint, method, h.requestToken, extra)
}

func (h *Handshake) fetch(ctx context.Context, phase, endpoint, method string, token *Credentials, extra url.Values) (*Credentials, error) {
	if method == "" {
		method = http.MethodPost
	}

	signed, err := h.signer.SignURL(method, endpoint, token, extra, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sign %s request: %w", phase, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, signed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", phase, err)
	}

	h.logger.Debug("requesting token",
		zap.String("phase", phase),
		zap.String("method", method),
		zap.String("url", endpoint))

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", phase, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponse))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", phase, err)
	}

	h.logger.Debug("token response",
		zap.String("phase", phase),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, &HandshakeError{Phase: phase, Status: resp.StatusCode, Body: string(body)}
	}

	return parseTokenResponse(phase, resp.StatusCode, body)
}

func parseTokenResponse(phase string, status int, body []byte) (*Credentials, error) {
	values, err := url.ParseQuery(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, &HandshakeError{Phase: phase, Status: status, Body: string(body), Reason: "malformed body: " + err.Error()}
	}

	token := values.Get(ParamToken)
	if token == "" {
		return nil, &HandshakeError{Phase: phase, Status: status, Body: string(body), Reason: "missing " + ParamToken}
	}

	return &Credentials{Token: token, Secret: values.Get(ParamTokenSecret)}, nil
}

// AuthorizeURL returns the page where the user approves the request token.
// Existing query parameters of authURL are kept.
func AuthorizeURL(authURL, token, callback string) (string, error) {
	u, err := url.Parse(authURL)
	if err != nil {
		return "", fmt.Errorf("invalid auth url %q: %w", authURL, err)
	}

	query := u.Query()
	query.Set(ParamToken, token)
	if callback != "" {
		query.Set(ParamCallback, callback)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}
