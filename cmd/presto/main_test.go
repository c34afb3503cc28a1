package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prestocli/presto/internal/runtime"
	"github.com/prestocli/presto/internal/settings"
)

var _ = Describe("presto", func() {
	var (
		dir    string
		out    *bytes.Buffer
		errOut *bytes.Buffer
	)

	run := func(input string, args ...string) error {
		rt := runtime.NewRuntime(runtime.BuildInfo{Version: "1.2.3"},
			runtime.WithIO(strings.NewReader(input), out, errOut),
			runtime.WithSettingsLoader(settings.NewLoader(runtime.Name).WithPath(filepath.Join(dir, "settings.yaml"))))
		rt.Root().SetArgs(append([]string{"--config", filepath.Join(dir, "presto.json")}, args...))
		return rt.Execute()
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
		errOut = &bytes.Buffer{}
	})

	Describe("buildInfo", func() {
		It("parses the build date", func() {
			buildDate = "2024-05-01T10:00:00Z"
			DeferCleanup(func() { buildDate = "" })

			info := buildInfo()
			Expect(info.Version).To(Equal(version))
			Expect(info.BuildTime.Year()).To(Equal(2024))
		})

		It("ignores a malformed build date", func() {
			buildDate = "yesterday"
			DeferCleanup(func() { buildDate = "" })

			Expect(buildInfo().BuildTime.IsZero()).To(BeTrue())
		})
	})

	Describe("first run", func() {
		It("creates the providers file from the template", func() {
			Expect(run("", "provider", "list")).To(Succeed())
			Expect(out.String()).To(Equal("[1] odesk\n[2] twitter\n\n"))

			data, err := os.ReadFile(filepath.Join(dir, "presto.json"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(HavePrefix("{\n    \"providers\": ["))
			Expect(string(data)).NotTo(HaveSuffix("\n"))
		})
	})

	Describe("managing providers and apps", func() {
		It("adds a provider and an app to it", func() {
			Expect(run("", "--no-input", "provider", "add", "example",
				"--domain_name", "api.example.com",
				"--auth_type", "OAuth1.0",
				"--request_token_url", "https://api.example.com/oauth/request_token",
				"--access_token_url", "https://api.example.com/oauth/access_token",
				"--auth_url", "https://api.example.com/oauth/authorize",
			)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("Added new provider example"))

			out.Reset()
			Expect(run("\nkey\nsecret\n", "app", "add", "--provider", "3")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("Enter the public key:"))
			Expect(out.String()).To(ContainSubstring("Added new app 'default'"))

			out.Reset()
			Expect(run("", "app", "list", "example", "-o", "json", "--show-keys")).To(Succeed())
			Expect(out.String()).To(ContainSubstring(`"public_key": "key"`))
		})

		It("reports an unknown provider", func() {
			err := run("", "app", "list", "nope")
			Expect(err).To(MatchError("Provider with name 'nope' not found."))
		})
	})

	Describe("url", func() {
		It("rejects a relative URL", func() {
			Expect(run("", "url", "/v1/me")).To(MatchError(`invalid URL "/v1/me"`))
		})
	})

	Describe("completion", func() {
		It("generates a bash script", func() {
			Expect(run("", "completion", "bash")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("__start_presto"))
		})
	})
})
