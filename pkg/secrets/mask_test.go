package secrets

import (
	"strings"
	"testing"
)

func TestMaskValue(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		config *Masking
		want   string
	}{
		{
			name:   "partial masking",
			value:  "kd94hf93k423kf44",
			config: &Masking{Style: StylePartial, PartialShowChars: 6, Replacement: "***"},
			want:   "kd94hf***",
		},
		{
			name:   "full masking",
			value:  "kd94hf93k423kf44",
			config: &Masking{Style: StyleFull, Replacement: "<hidden>"},
			want:   "<hidden>",
		},
		{
			name:   "full masking default replacement",
			value:  "secret",
			config: &Masking{Style: StyleFull},
			want:   "***",
		},
		{
			name:   "short value fully masked",
			value:  "abc",
			config: &Masking{Style: StylePartial, PartialShowChars: 6},
			want:   "***",
		},
		{
			name:  "nil config uses default",
			value: "dpf43f3p2l4k3l03",
			want:  "dpf4***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskValue(tt.value, tt.config); got != tt.want {
				t.Errorf("MaskValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaskValue_Hash(t *testing.T) {
	config := &Masking{Style: StyleHash}
	a := MaskValue("secret", config)
	b := MaskValue("secret", config)

	if a != b {
		t.Errorf("hash masking is not stable: %q != %q", a, b)
	}
	if !strings.HasPrefix(a, "sha256:") || len(a) != len("sha256:")+16 {
		t.Errorf("unexpected hash mask %q", a)
	}
	if strings.Contains(a, "secret") {
		t.Errorf("hash mask leaks value: %q", a)
	}
}

func TestMaskURL(t *testing.T) {
	raw := "http://api.example.com/v1?oauth_consumer_key=dpf43f3p2l4k3l03&oauth_signature=tR3%2BTy81lMeYAr%2FFid0kMTYa%2FWM%3D&oauth_token=nnch734d00sl2jdk&q=1"
	got := MaskURL(raw)

	for _, hidden := range []string{"tR3%2BTy81", "nnch734d00sl2jdk"} {
		if strings.Contains(got, hidden) {
			t.Errorf("MaskURL() leaks %q: %s", hidden, got)
		}
	}
	for _, kept := range []string{"oauth_consumer_key=dpf43f3p2l4k3l03", "oauth_signature=tR3+***", "oauth_token=nnch***", "q=1"} {
		if !strings.Contains(got, kept) {
			t.Errorf("MaskURL() = %s, missing %q", got, kept)
		}
	}

	if got := MaskURL("http://example.com/"); got != "http://example.com/" {
		t.Errorf("MaskURL() without query = %s", got)
	}
	if got := MaskURL("::bad"); got != "::bad" {
		t.Errorf("MaskURL() invalid = %s", got)
	}
}
