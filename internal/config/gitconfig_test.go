package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitConfigOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string][]string
	}{
		{
			name:     "empty output",
			input:    "",
			expected: map[string][]string{},
		},
		{
			name:  "single values",
			input: "gittree.theme nord\ngittree.depth 2\n",
			expected: map[string][]string{
				"theme": {"nord"},
				"depth": {"2"},
			},
		},
		{
			name:  "value with spaces",
			input: "gittree.debug_log /tmp/my logs/git-tree.log",
			expected: map[string][]string{
				"debug_log": {"/tmp/my logs/git-tree.log"},
			},
		},
		{
			name:  "multi value key",
			input: "gittree.theme nord\ngittree.theme dracula\n",
			expected: map[string][]string{
				"theme": {"nord", "dracula"},
			},
		},
		{
			name:  "key without value",
			input: "gittree.icons\n",
			expected: map[string][]string{
				"icons": {"true"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseGitConfigOutput(tt.input))
		})
	}
}

func TestConvertGitConfig(t *testing.T) {
	result := convertGitConfig(map[string][]string{
		"theme":   {"nord"},
		"compact": {"false", "true"},
		"empty":   {},
	})

	assert.Equal(t, map[string]any{
		"theme":   "nord",
		"compact": []any{"false", "true"},
	}, result)

	cfg := DefaultConfig()
	cfg.apply(result)
	assert.True(t, cfg.Compact, "last value of a multi-valued key wins")
}

func TestLoadGitConfig(t *testing.T) {
	defer func() { gitConfigMock = nil }()

	var gotArgs []string
	gitConfigMock = func(args []string) (string, error) {
		gotArgs = args
		return "gittree.backend go-git\ngittree.width -1\n", nil
	}

	result, err := loadGitConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"config", "--global", "--get-regexp", `^gittree\.`}, gotArgs)
	assert.Equal(t, map[string]any{"backend": "go-git", "width": "-1"}, result)
}

func TestLoadGitConfigErrorHandling(t *testing.T) {
	defer func() { gitConfigMock = nil }()

	gitConfigMock = func([]string) (string, error) {
		return "", fmt.Errorf("git command failed")
	}

	result, err := loadGitConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git command failed")
	assert.Nil(t, result)
}

func TestParseCLIConfigOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		expected  map[string]any
		errMsg    string
	}{
		{
			name:      "empty",
			overrides: nil,
			expected:  map[string]any{},
		},
		{
			name:      "values",
			overrides: []string{"gittree.theme=nord", "gittree.width=100"},
			expected:  map[string]any{"theme": "nord", "width": "100"},
		},
		{
			name:      "value containing equals",
			overrides: []string{"gittree.debug_log=/tmp/a=b.log"},
			expected:  map[string]any{"debug_log": "/tmp/a=b.log"},
		},
		{
			name:      "repeated key keeps the last",
			overrides: []string{"gittree.theme=nord", "gittree.theme=ansi"},
			expected:  map[string]any{"theme": "ansi"},
		},
		{
			name:      "missing equals",
			overrides: []string{"gittree.theme"},
			errMsg:    "expected format",
		},
		{
			name:      "wrong prefix",
			overrides: []string{"lw.theme=nord"},
			errMsg:    "must start with",
		},
		{
			name:      "empty key",
			overrides: []string{"gittree.=x"},
			errMsg:    "empty config key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseCLIConfigOverrides(tt.overrides)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
