package pkg

import "testing"

func TestMatchToken(t *testing.T) {
	tests := []struct {
		s      string
		tokens []string
		want   string
		ok     bool
	}{
		{s: "cpuss-0-usr", tokens: []string{"gpu", "cpu"}, want: "cpu", ok: true},
		{s: "GPU0-usr", tokens: []string{"gpu"}, want: "gpu", ok: true},
		{s: "soc_thermal", tokens: []string{"soc*"}, want: "soc*", ok: true},
		{s: "pm8350_soc", tokens: []string{"soc*"}, ok: false},
		{s: "battery", tokens: []string{"cpu", "gpu"}, ok: false},
		{s: "anything", tokens: nil, ok: false},
	}

	for _, tt := range tests {
		got, ok := MatchToken(tt.s, tt.tokens)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MatchToken(%q, %v) = %q, %v; want %q, %v", tt.s, tt.tokens, got, ok, tt.want, tt.ok)
		}
	}
}
