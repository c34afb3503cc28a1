package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixture has two providers and three apps.
const fixture = `{
    "providers": [
        {
            "access_token_method": "POST",
            "access_token_url": "https://a.com/access",
            "apps": [
                {
                    "name": "default",
                    "public_key": "pub1",
                    "secret_key": "sec1",
                    "tokens": [
                        {
                            "name": "default",
                            "token_key": "tk1",
                            "token_secret": "ts1"
                        }
                    ]
                },
                {
                    "name": "second",
                    "public_key": "pub2",
                    "secret_key": "sec2",
                    "tokens": []
                }
            ],
            "auth_type": "OAuth1.0",
            "auth_url": "https://a.com/auth",
            "domain_name": "a.com,b.com",
            "name": "alpha",
            "request_token_method": "POST",
            "request_token_url": "https://a.com/request"
        },
        {
            "access_token_method": "GET",
            "access_token_url": "https://c.com/access",
            "apps": [
                {
                    "name": "default",
                    "public_key": "pub3",
                    "secret_key": "sec3",
                    "tokens": []
                }
            ],
            "auth_type": "OAuth1.0",
            "auth_url": "https://c.com/auth",
            "domain_name": "c.com",
            "name": "beta",
            "request_token_method": "GET",
            "request_token_url": "https://c.com/request"
        }
    ]
}`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".presto")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0600))
	return path
}

func loadFixture(t *testing.T) *Configuration {
	t.Helper()
	cfg, err := Parse([]byte(fixture))
	require.NoError(t, err)
	return cfg
}
