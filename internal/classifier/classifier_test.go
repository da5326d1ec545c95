package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		account  string
		expected string
	}{
		{"Plain digit string", "521000", "521000"},
		{"Padded suffixed form", "0000279-01", "279"},
		{"Suffixed without padding", "279-01", "279"},
		{"Suffixed with short zero run", "00279-01", "279"},
		{"Only zeros before suffix", "0000-01", ""},
		{"Empty string", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.account))
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		account  string
		prefixes []string
		expected bool
	}{
		{"Suffixed form exact prefix", "0000279-01", []string{"279"}, true},
		{"Suffixed form shorter prefix", "0000279-01", []string{"27"}, true},
		{"Suffixed form wrong prefix", "0000279-01", []string{"28"}, false},
		{"Plain form matches", "66411000", []string{"664"}, true},
		{"Plain form no match", "521000", []string{"53"}, false},
		{"Plain form class prefix", "521000", []string{"52"}, true},
		{"Longer prefix than account", "27", []string{"275"}, false},
		{"Empty prefix set", "521000", nil, false},
		{"Empty prefix entry ignored", "521000", []string{""}, false},
		{"Account reduces to empty", "0000-01", []string{"27"}, false},
		{"One of several prefixes", "401100", []string{"41", "40"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Matches(tc.account, tc.prefixes))
		})
	}
}
