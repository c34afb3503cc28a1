package builtin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prestocli/presto/pkg/auth"
	"github.com/prestocli/presto/pkg/cli/interactive"
	"github.com/prestocli/presto/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// providerServer is an OAuth1.0 provider with an echoing API endpoint.
type providerServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newProviderServer(t *testing.T) *providerServer {
	t.Helper()
	s := &providerServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/request_token", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		_, _ = fmt.Fprint(w, "oauth_token=req-token&oauth_token_secret=req-secret")
	})
	mux.HandleFunc("/access_token", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if r.URL.Query().Get("oauth_verifier") != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = fmt.Fprint(w, "bad verifier")
			return
		}
		_, _ = fmt.Fprint(w, "oauth_token=acc-token&oauth_token_secret=acc-secret")
	})
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Test", "yes")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"method":   r.Method,
			"consumer": r.URL.Query().Get("oauth_consumer_key"),
			"token":    r.URL.Query().Get("oauth_token"),
			"auth":     r.Header.Get("Authorization"),
			"body":     string(body),
		})
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// testConfig has an OAuth1.0 provider served by base and an OAuth2.0 one.
func testConfig(base string) *config.Configuration {
	return &config.Configuration{Providers: []*config.Provider{
		{
			Name:               "alpha",
			DomainName:         "127.0.0.1,a.com",
			AuthType:           config.AuthOAuth1,
			RequestTokenURL:    base + "/request_token",
			RequestTokenMethod: config.MethodPOST,
			AccessTokenURL:     base + "/access_token",
			AccessTokenMethod:  config.MethodGET,
			AuthURL:            base + "/authorize",
			Apps: []*config.Application{
				{
					Name: "default", PublicKey: "ck-alpha-key", SecretKey: "cs-alpha-secret",
					Tokens: []*config.Token{{Name: "default", TokenKey: "tk-alpha-token", TokenSecret: "ts-alpha"}},
				},
				{Name: "second", PublicKey: "k2", SecretKey: "s2"},
			},
		},
		{
			Name:               "beta",
			DomainName:         "c.com",
			AuthType:           config.AuthOAuth2,
			RequestTokenMethod: config.MethodPOST,
			AccessTokenMethod:  config.MethodPOST,
			Apps: []*config.Application{
				{
					Name: "default", PublicKey: "kb", SecretKey: "sb",
					Tokens: []*config.Token{{Name: "default", TokenKey: "bearer-token"}},
				},
			},
		},
	}}
}

type testEnv struct {
	t       *testing.T
	path    string
	out     *bytes.Buffer
	opts    *Options
	browser *auth.MockBrowserOpener
}

// newEnv writes cfg to a temporary file. Without input the commands run
// with --no-input.
func newEnv(t *testing.T, cfg *config.Configuration, input string) *testEnv {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".presto")
	if cfg != nil {
		data, err := config.Encode(cfg)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0600))
	}

	out := &bytes.Buffer{}
	browser := &auth.MockBrowserOpener{}
	opts := &Options{
		Store:         config.NewStore(path),
		Output:        out,
		Browser:       browser,
		DefaultFormat: formatText,
	}
	if input == "" {
		opts.NoInput = true
	} else {
		opts.Prompter = interactive.NewPrompter(&interactive.PrompterConfig{
			Input:        strings.NewReader(input),
			Output:       out,
			DisableColor: true,
		})
	}
	return &testEnv{t: t, path: path, out: out, opts: opts, browser: browser}
}

func (e *testEnv) run(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(e.out)
	cmd.SetErr(e.out)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.Execute()
}

func (e *testEnv) reload() *config.Configuration {
	e.t.Helper()
	cfg, err := config.NewStore(e.path).Load()
	require.NoError(e.t, err)
	return cfg
}

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
