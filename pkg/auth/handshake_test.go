package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oauthServer is a minimal OAuth1.0 provider.
type oauthServer struct {
	*httptest.Server
	hits        atomic.Int32
	mu          sync.Mutex
	query       url.Values
	method      string
	requestBody string
	requestCode int
	accessBody  string
	accessCode  int
}

func newOAuthServer(t *testing.T) *oauthServer {
	t.Helper()
	s := &oauthServer{
		requestBody: "oauth_token=req-token&oauth_token_secret=req-secret&oauth_callback_confirmed=true",
		requestCode: http.StatusOK,
		accessBody:  "oauth_token=acc-token&oauth_token_secret=acc-secret",
		accessCode:  http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/request_token", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.record(r)
		w.WriteHeader(s.requestCode)
		_, _ = fmt.Fprint(w, s.requestBody)
	})
	mux.HandleFunc("/access_token", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.record(r)
		w.WriteHeader(s.accessCode)
		_, _ = fmt.Fprint(w, s.accessBody)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *oauthServer) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = r.URL.Query()
	s.method = r.Method
}

func (s *oauthServer) last() (string, url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method, s.query
}

func TestHandshake_FullFlow(t *testing.T) {
	srv := newOAuthServer(t)
	ctx := context.Background()
	h := NewHandshake(Consumer{Key: "ck", Secret: "cs"}, WithHTTPClient(srv.Client()))

	req, err := h.RequestToken(ctx, srv.URL+"/request_token", "POST")
	require.NoError(t, err)
	assert.Equal(t, &Credentials{Token: "req-token", Secret: "req-secret"}, req)
	assert.Same(t, req, h.Pending())
	method, query := srv.last()
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "ck", query.Get(ParamConsumerKey))
	assert.NotEmpty(t, query.Get(ParamSignature))
	assert.Empty(t, query.Get(ParamToken))

	link, err := AuthorizeURL("https://provider.example/authorize", req.Token, "")
	require.NoError(t, err)
	assert.Equal(t, "https://provider.example/authorize?oauth_token=req-token", link)

	acc, err := h.AccessToken(ctx, srv.URL+"/access_token", "GET", "verifier-1")
	require.NoError(t, err)
	assert.Equal(t, &Credentials{Token: "acc-token", Secret: "acc-secret"}, acc)
	method, query = srv.last()
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "req-token", query.Get(ParamToken))
	assert.Equal(t, "verifier-1", query.Get(ParamVerifier))
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestHandshake_SignatureVerifies(t *testing.T) {
	srv := newOAuthServer(t)
	signer := fixedSigner(Consumer{Key: "ck", Secret: "cs"})
	h := NewHandshake(signer.Consumer, WithHTTPClient(srv.Client()), WithSigner(signer))

	_, err := h.RequestToken(context.Background(), srv.URL+"/request_token", "POST")
	require.NoError(t, err)

	_, query := srv.last()
	params := url.Values{}
	for k, vs := range query {
		if k != ParamSignature {
			params[k] = vs
		}
	}
	base, err := SignatureBaseString("POST", srv.URL+"/request_token", params)
	require.NoError(t, err)
	assert.Equal(t, HMACSHA1(base, "cs", ""), query.Get(ParamSignature))
}

func TestHandshake_AccessTokenRequiresRequestToken(t *testing.T) {
	srv := newOAuthServer(t)
	h := NewHandshake(Consumer{Key: "ck", Secret: "cs"}, WithHTTPClient(srv.Client()))

	_, err := h.AccessToken(context.Background(), srv.URL+"/access_token", "POST", "v")
	assert.ErrorIs(t, err, ErrNoRequestToken)
	assert.Equal(t, int32(0), srv.hits.Load())
}

func TestHandshake_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		code       int
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "non-200",
			body:       "invalid consumer",
			code:       http.StatusUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "invalid request token response: invalid consumer",
		},
		{
			name:       "missing token",
			body:       "oauth_token_secret=only",
			code:       http.StatusOK,
			wantStatus: http.StatusOK,
			wantMsg:    `invalid request token response: missing oauth_token (body: "oauth_token_secret=only")`,
		},
		{
			name:       "malformed body",
			body:       "oauth_token=%zz",
			code:       http.StatusOK,
			wantStatus: http.StatusOK,
			wantMsg:    "invalid request token response: malformed body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOAuthServer(t)
			srv.requestBody = tt.body
			srv.requestCode = tt.code
			h := NewHandshake(Consumer{Key: "ck", Secret: "cs"}, WithHTTPClient(srv.Client()))

			_, err := h.RequestToken(context.Background(), srv.URL+"/request_token", "POST")
			require.Error(t, err)

			var herr *HandshakeError
			require.True(t, errors.As(err, &herr))
			assert.Equal(t, PhaseRequestToken, herr.Phase)
			assert.Equal(t, tt.wantStatus, herr.Status)
			assert.Equal(t, tt.body, herr.Body)
			assert.Contains(t, herr.Error(), tt.wantMsg)
			assert.Nil(t, h.Pending())
		})
	}
}

func TestHandshakeError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *HandshakeError
		want string
	}{
		{
			name: "rejected",
			err:  &HandshakeError{Phase: PhaseAccessToken, Status: 401, Body: "bad verifier"},
			want: "invalid access token response: bad verifier",
		},
		{
			name: "missing token",
			err:  &HandshakeError{Phase: PhaseRequestToken, Status: 200, Body: "oauth_token_secret=only", Reason: "missing oauth_token"},
			want: `invalid request token response: missing oauth_token (body: "oauth_token_secret=only")`,
		},
		{
			name: "empty body",
			err:  &HandshakeError{Phase: PhaseRequestToken, Status: 200, Reason: "missing oauth_token"},
			want: `invalid request token response: missing oauth_token (body: "")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestHandshake_AccessTokenRejected(t *testing.T) {
	srv := newOAuthServer(t)
	srv.accessBody = "verifier mismatch"
	srv.accessCode = http.StatusBadRequest
	h := NewHandshake(Consumer{Key: "ck", Secret: "cs"}, WithHTTPClient(srv.Client()))

	_, err := h.RequestToken(context.Background(), srv.URL+"/request_token", "POST")
	require.NoError(t, err)

	_, err = h.AccessToken(context.Background(), srv.URL+"/access_token", "POST", "bad")
	var herr *HandshakeError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, PhaseAccessToken, herr.Phase)
	assert.EqualError(t, err, "invalid access token response: verifier mismatch")
}

func TestHandshake_NetworkError(t *testing.T) {
	srv := newOAuthServer(t)
	endpoint := srv.URL + "/request_token"
	srv.Close()

	h := NewHandshake(Consumer{Key: "ck", Secret: "cs"})
	_, err := h.RequestToken(context.Background(), endpoint, "POST")
	require.Error(t, err)

	var herr *HandshakeError
	assert.False(t, errors.As(err, &herr))
}

func TestAuthorizeURL(t *testing.T) {
	tests := []struct {
		name     string
		authURL  string
		token    string
		callback string
		want     string
	}{
		{
			name:    "plain",
			authURL: "https://www.odesk.com/services/api/auth",
			token:   "abc",
			want:    "https://www.odesk.com/services/api/auth?oauth_token=abc",
		},
		{
			name:     "with callback",
			authURL:  "https://api.twitter.com/oauth/authorize",
			token:    "abc",
			callback: "http://localhost/cb",
			want:     "https://api.twitter.com/oauth/authorize?oauth_callback=http%3A%2F%2Flocalhost%2Fcb&oauth_token=abc",
		},
		{
			name:    "keeps query",
			authURL: "https://example.com/auth?lang=en",
			token:   "t",
			want:    "https://example.com/auth?lang=en&oauth_token=t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AuthorizeURL(tt.authURL, tt.token, tt.callback)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
