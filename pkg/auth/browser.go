package auth

import (
	"fmt"
	"io"
	"sync"

	"github.com/skratchdot/open-golang/open"
)

// BrowserOpener opens URLs in a browser.
type BrowserOpener interface {
	Open(url string) error
}

// SystemBrowserOpener opens URLs using the system default browser.
type SystemBrowserOpener struct{}

// Open opens a URL in the system default browser.
func (s *SystemBrowserOpener) Open(url string) error {
	return open.Run(url)
}

// MockBrowserOpener records URLs instead of opening them.
type MockBrowserOpener struct {
	mu         sync.Mutex
	OpenedURLs []string
	Err        error
}

// Open records the URL and returns the configured error.
func (m *MockBrowserOpener) Open(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OpenedURLs = append(m.OpenedURLs, url)
	return m.Err
}

// GetOpenedURLs returns a copy of the opened URLs.
func (m *MockBrowserOpener) GetOpenedURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	urls := make([]string, len(m.OpenedURLs))
	copy(urls, m.OpenedURLs)
	return urls
}

// ShowAuthorizeURL prints the authorize URL and, when opener is set, tries to
// open it. A failure to open is only reported on w.
func ShowAuthorizeURL(opener BrowserOpener, url string, w io.Writer) {
	_, _ = fmt.Fprintf(w, "Paste this URL to your browser: '%s'\n", url)
	if opener == nil {
		return
	}
	if err := opener.Open(url); err != nil {
		_, _ = fmt.Fprintf(w, "Failed to open browser automatically: %v\n", err)
	}
}
