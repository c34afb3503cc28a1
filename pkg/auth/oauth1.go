package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// OAuth1.0 protocol constants.
const (
	SignatureMethod = "HMAC-SHA1"
	Version         = "1.0"
)

// Protocol parameter names.
const (
	ParamConsumerKey     = "oauth_consumer_key"
	ParamNonce           = "oauth_nonce"
	ParamTimestamp       = "oauth_timestamp"
	ParamSignatureMethod = "oauth_signature_method"
	ParamVersion         = "oauth_version"
	ParamToken           = "oauth_token"
	ParamTokenSecret     = "oauth_token_secret"
	ParamVerifier        = "oauth_verifier"
	ParamCallback        = "oauth_callback"
	ParamSignature       = "oauth_signature"
)

// Consumer is the key pair of a registered application.
type Consumer struct {
	Key    string
	Secret string
}

// Credentials is a request or access token with its secret.
type Credentials struct {
	Token  string
	Secret string
}

// Signer signs requests with HMAC-SHA1 and delivers the protocol parameters
// in the query string.
type Signer struct {
	Consumer Consumer
	// Nonce returns a unique value per request.
	Nonce func() string
	// Now returns the time used for oauth_timestamp.
	Now func() time.Time
}

// NewSigner creates a signer with a random nonce and the system clock.
func NewSigner(consumer Consumer) *Signer {
	return &Signer{
		Consumer: consumer,
		Nonce:    randomNonce,
		Now:      time.Now,
	}
}

// SignURL returns rawURL with the oauth parameters and signature added to its
// query. token may be nil during the request token phase. extra holds
// additional protocol parameters such as oauth_verifier, and body holds
// form-encoded body parameters that take part in the signature without being
// added to the URL.
func (s *Signer) SignURL(method, rawURL string, token *Credentials, extra, body url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid url %q: scheme and host are required", rawURL)
	}

	oauth := s.protocolParams(token, extra)

	// Protocol parameters already in the URL are replaced, not repeated.
	query := u.Query()
	query.Del(ParamSignature)
	for k := range oauth {
		query.Del(k)
	}
	all := url.Values{}
	for _, vals := range []url.Values{query, oauth, body} {
		for k, vs := range vals {
			all[k] = append(all[k], vs...)
		}
	}

	base := baseString(method, u, all)
	tokenSecret := ""
	if token != nil {
		tokenSecret = token.Secret
	}

	for k, vs := range oauth {
		query[k] = vs
	}
	query.Set(ParamSignature, HMACSHA1(base, s.Consumer.Secret, tokenSecret))

	signed := *u
	signed.RawQuery = encodeParams(query)
	return signed.String(), nil
}

func (s *Signer) protocolParams(token *Credentials, extra url.Values) url.Values {
	nonce, now := s.Nonce, s.Now
	if nonce == nil {
		nonce = randomNonce
	}
	if now == nil {
		now = time.Now
	}

	params := url.Values{}
	params.Set(ParamConsumerKey, s.Consumer.Key)
	params.Set(ParamNonce, nonce())
	params.Set(ParamTimestamp, strconv.FormatInt(now().Unix(), 10))
	params.Set(ParamSignatureMethod, SignatureMethod)
	params.Set(ParamVersion, Version)
	if token != nil && token.Token != "" {
		params.Set(ParamToken, token.Token)
	}
	for k, vs := range extra {
		params[k] = vs
	}
	return params
}

// SignatureBaseString builds the string that is signed for a request to
// rawURL. Query parameters of rawURL are included along with params.
func SignatureBaseString(method, rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	all := u.Query()
	for k, vs := range params {
		all[k] = append(all[k], vs...)
	}
	return baseString(method, u, all), nil
}

func baseString(method string, u *url.URL, params url.Values) string {
	return strings.ToUpper(method) + "&" +
		PercentEncode(baseURI(u)) + "&" +
		PercentEncode(normalizeParams(params))
}

// baseURI drops the query and fragment, lower-cases scheme and host and
// removes the default port.
func baseURI(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" {
		if !(scheme == "http" && port == "80") && !(scheme == "https" && port == "443") {
			host = host + ":" + port
		}
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path
}

// normalizeParams encodes and sorts parameters by name, then value.
func normalizeParams(params url.Values) string {
	type pair struct{ name, value string }

	pairs := make([]pair, 0, len(params))
	for k, vs := range params {
		if k == ParamSignature {
			continue
		}
		ek := PercentEncode(k)
		for _, v := range vs {
			pairs = append(pairs, pair{ek, PercentEncode(v)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].name != pairs[j].name {
			return pairs[i].name < pairs[j].name
		}
		return pairs[i].value < pairs[j].value
	})

	encoded := make([]string, len(pairs))
	for i, p := range pairs {
		encoded[i] = p.name + "=" + p.value
	}
	return strings.Join(encoded, "&")
}

func encodeParams(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range params[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(PercentEncode(k))
			b.WriteByte('=')
			b.WriteString(PercentEncode(v))
		}
	}
	return b.String()
}

// HMACSHA1 signs base with the consumer and token secrets.
func HMACSHA1(base, consumerSecret, tokenSecret string) string {
	key := PercentEncode(consumerSecret) + "&" + PercentEncode(tokenSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// PercentEncode escapes every byte outside the RFC 3986 unreserved set.
func PercentEncode(s string) string {
	const hexUpper = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexUpper[c>>4])
		b.WriteByte(hexUpper[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

func randomNonce() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(b)
}
