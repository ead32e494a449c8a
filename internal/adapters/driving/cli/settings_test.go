package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classroom-labs/coursechat-cli/internal/adapters/driven/config/file"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-ant-1234567890abcdef",
			expected: "sk-a...cdef",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestSettingsSet_CoercesValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COURSECHAT_CONFIG_DIR", dir)

	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	original := configStore
	configStore = store
	defer func() { configStore = original }()

	tests := []struct {
		name  string
		key   string
		raw   string
		check func(t *testing.T)
	}{
		{
			name: "Integer",
			key:  "search.top_k",
			raw:  "7",
			check: func(t *testing.T) {
				assert.Equal(t, 7, configStore.GetInt("search.top_k"))
			},
		},
		{
			name: "Boolean",
			key:  "flag",
			raw:  "true",
			check: func(t *testing.T) {
				assert.True(t, configStore.GetBool("flag"))
			},
		},
		{
			name: "String",
			key:  "llm.provider",
			raw:  "anthropic",
			check: func(t *testing.T) {
				assert.Equal(t, "anthropic", configStore.GetString("llm.provider"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, runSettingsSet(settingsSetCmd, []string{tt.key, tt.raw}))
			tt.check(t)
		})
	}
}
