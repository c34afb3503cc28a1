package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadSeedsTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".presto")
	store := NewStore(path)

	cfg, err := store.Load()
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Providers)
	assert.Equal(t, "odesk", cfg.Providers[0].Name)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, bytes.TrimRight(template, "\n"), data)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "empty", content: "", wantMsg: "Empty configuration file"},
		{name: "whitespace", content: "  \n", wantMsg: "Empty configuration file"},
		{name: "malformed", content: "{providers", wantMsg: "malformed configuration"},
		{name: "null", content: "null", wantMsg: "malformed configuration: top level is null, not an object"},
		{name: "array", content: "[]", wantMsg: "malformed configuration: top level is an array, not an object"},
		{name: "providers object", content: `{"providers": {}}`, wantMsg: "malformed configuration: providers is an object, not an array"},
		{name: "providers null", content: `{"providers": null}`, wantMsg: "malformed configuration: providers is null, not an array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".presto")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := NewStore(path).Load()
			require.Error(t, err)

			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr))
			assert.Contains(t, cerr.Error(), tt.wantMsg)
		})
	}
}

func TestStore_SaveFormat(t *testing.T) {
	path := writeFixture(t)
	store := NewStore(path)
	_, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fixture, string(data))

	for _, line := range strings.Split(string(data), "\n") {
		assert.Equal(t, strings.TrimRight(line, " \t"), line)
	}
}

func TestStore_SaveBeforeLoad(t *testing.T) {
	err := NewStore(filepath.Join(t.TempDir(), ".presto")).Save()
	require.Error(t, err)
}

func TestStore_AddProviderRoundTrip(t *testing.T) {
	path := writeFixture(t)
	store := NewStore(path)
	cfg, err := store.Load()
	require.NoError(t, err)

	p := &Provider{
		Name:               "gamma",
		DomainName:         "g.com",
		AuthType:           AuthOAuth1,
		RequestTokenURL:    "https://g.com/request?x=1&y=2",
		RequestTokenMethod: MethodPOST,
		AccessTokenURL:     "https://g.com/access",
		AccessTokenMethod:  MethodPOST,
		AuthURL:            "https://g.com/auth",
	}
	require.NoError(t, cfg.AddProvider(p))
	require.NoError(t, store.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"request_token_url": "https://g.com/request?x=1&y=2"`)
	assert.Contains(t, string(data), `"apps": []`)

	reloaded, err := NewStore(path).Load()
	require.NoError(t, err)
	require.Len(t, reloaded.Providers, 3)
	assert.Equal(t, cfg.ToMap(), reloaded.ToMap())
	assert.Equal(t, "gamma", reloaded.Providers[2].Name)
}

func TestFromMapFillsMissingKeys(t *testing.T) {
	cfg := FromMap(map[string]interface{}{
		"providers": []interface{}{
			map[string]interface{}{"name": "only"},
		},
	})

	require.Len(t, cfg.Providers, 1)
	p := cfg.Providers[0]
	assert.Equal(t, "only", p.Name)
	assert.Equal(t, "", p.AuthURL)
	assert.NotNil(t, p.Apps)

	m := p.ToMap()
	assert.Len(t, m, 9)
	assert.Equal(t, []interface{}{}, m["apps"])
}

func TestParentLinks(t *testing.T) {
	cfg := loadFixture(t)
	app := cfg.Providers[0].Apps[0]
	assert.Same(t, cfg.Providers[0], app.Provider())
	assert.Same(t, app, app.Tokens[0].App())
}
