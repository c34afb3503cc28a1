package builtin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/prestocli/presto/pkg/auth"
	"github.com/prestocli/presto/pkg/config"
	"github.com/prestocli/presto/pkg/output"
	"github.com/prestocli/presto/pkg/secrets"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// urlOptions are the curl-like flags of the url command.
type urlOptions struct {
	auth     bool
	provider string
	app      string
	token    string
	method   string
	data     string
	headers  []string
	include  bool
	headOnly bool
	pretty   bool
	color    bool
}

// NewURLCommand creates the url command.
func NewURLCommand(opts *Options) *cobra.Command {
	uo := &urlOptions{}

	cmd := &cobra.Command{
		Use:   "url [flags] <url>",
		Short: "Send a request, optionally signed with a stored token",
		Long: `Send an HTTP request and print the response.

With -a the request is signed with OAuth1.0 credentials. The provider is the
one whose domain list contains the URL host unless --auth-provider is given;
the app and token named 'default' are used unless --auth-app and
--auth-token say otherwise. Tokens of OAuth2.0 providers are sent as bearer
tokens.`,
		Example: `  presto url -a https://api.twitter.com/1.1/account/verify_credentials.json
  presto url -icpa -X POST -d 'status=hello' https://api.twitter.com/1.1/statuses/update.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runURL(cmd.Context(), opts, uo, args[0])
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&uo.auth, "auth", "a", false, "Sign the request with stored credentials")
	f.StringVar(&uo.provider, "auth-provider", "", "Name of the auth provider")
	f.StringVar(&uo.app, "auth-app", config.DefaultName, "Name of the app")
	f.StringVar(&uo.token, "auth-token", config.DefaultName, "Name of the auth token")
	f.StringVarP(&uo.method, "request", "X", http.MethodGet, "HTTP request method")
	f.StringVarP(&uo.data, "data", "d", "", "Data to send")
	f.StringArrayVarP(&uo.headers, "header", "H", nil, "Extra HTTP header 'Name: value' (repeatable)")
	f.BoolVarP(&uo.include, "include", "i", false, "Include the request headers in the output")
	f.BoolVarP(&uo.headOnly, "head", "I", false, "Print headers only")
	f.BoolVarP(&uo.pretty, "pretty", "p", false, "Pretty-print the output")
	f.BoolVarP(&uo.color, "color", "c", false, "Colorize the output")
	_ = cmd.RegisterFlagCompletionFunc("auth-provider", ProviderCompletion(opts))
	_ = cmd.RegisterFlagCompletionFunc("request", FixedCompletion(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead))

	return cmd
}

func runURL(ctx context.Context, opts *Options, uo *urlOptions, raw string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	target, err := url.Parse(raw)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return fmt.Errorf("invalid URL %q", raw)
	}

	var body io.Reader
	if uo.data != "" {
		body = strings.NewReader(uo.data)
	}
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(uo.method), raw, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for _, h := range uo.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid header %q, expected 'Name: value'", h)
		}
		req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	if uo.data != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	client := opts.client()
	if uo.auth {
		client, err = authClient(ctx, opts, uo, target.Hostname())
		if err != nil {
			return err
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	sent := req.URL.String()
	if resp.Request != nil {
		sent = resp.Request.URL.String()
	}
	opts.logger().Debug("request sent",
		zap.String("method", req.Method),
		zap.String("url", secrets.MaskURL(sent)),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(content)))

	return writeResponse(opts.out(), uo, req, resp, content)
}

// authClient resolves provider, app and token and returns a client that
// authenticates with them.
func authClient(ctx context.Context, opts *Options, uo *urlOptions, host string) (*http.Client, error) {
	cfg, err := opts.loadProviders()
	if err != nil {
		return nil, err
	}

	var p *config.Provider
	if uo.provider != "" {
		p, err = cfg.ProviderByName(uo.provider)
	} else {
		p, err = cfg.ProviderByDomain(host)
	}
	if err != nil {
		return nil, err
	}

	app, err := p.AppByName(uo.app)
	if err != nil {
		return nil, err
	}
	token, err := app.TokenByName(uo.token)
	if err != nil {
		return nil, err
	}

	opts.logger().Debug("signing request",
		zap.String("provider", p.Name),
		zap.String("app", app.Name),
		zap.String("token", token.Name),
		zap.String("auth_type", p.AuthType))

	if p.AuthType == config.AuthOAuth2 {
		return auth.NewBearerClient(ctx, opts.client(), token.TokenKey), nil
	}
	return auth.NewClient(opts.client(), auth.NewOAuth1(
		auth.Consumer{Key: app.PublicKey, Secret: app.SecretKey},
		auth.Credentials{Token: token.TokenKey, Secret: token.TokenSecret},
	)), nil
}

// writeResponse prints the request headers (-i), the response status and
// headers, and the content unless -I is set.
func writeResponse(w io.Writer, uo *urlOptions, req *http.Request, resp *http.Response, content []byte) error {
	cfg := output.NewFormatConfig().WithColors(uo.color)
	structured := uo.pretty || uo.color

	if uo.include {
		_, _ = fmt.Fprintln(w, "\nHeaders:")
		if err := writeHeaders(w, headerMap(req.Header, nil), structured, cfg); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(w, "\nResponse:")
	status := map[string]string{"status": strconv.Itoa(resp.StatusCode)}
	if err := writeHeaders(w, headerMap(resp.Header, status), structured, cfg); err != nil {
		return err
	}

	if uo.headOnly {
		return nil
	}

	_, _ = fmt.Fprintln(w, "\nContent:")
	if structured {
		return output.NewJSONFormatter().FormatRaw(w, content, cfg)
	}
	if _, err := w.Write(content); err != nil {
		return err
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		_, _ = fmt.Fprintln(w)
	}
	return nil
}

// headerMap flattens headers to lower-case names, joining repeated values.
func headerMap(h http.Header, extra map[string]string) map[string]interface{} {
	m := make(map[string]interface{}, len(h)+len(extra))
	for k, v := range extra {
		m[k] = v
	}
	for k, v := range h {
		m[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return m
}

func writeHeaders(w io.Writer, headers map[string]interface{}, structured bool, cfg *output.FormatConfig) error {
	if structured {
		return output.NewJSONFormatter().Format(w, headers, cfg)
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s: %v\n", k, headers[k]); err != nil {
			return err
		}
	}
	return nil
}
