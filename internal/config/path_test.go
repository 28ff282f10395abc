package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("ORION_TEST_DIR", "/var/lib/orion")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain path untouched", input: "/etc/orion/config.yaml", want: "/etc/orion/config.yaml"},
		{name: "bare tilde", input: "~", want: home},
		{name: "tilde prefix", input: "~/.config/orion", want: filepath.Join(home, ".config/orion")},
		{name: "env var", input: "$ORION_TEST_DIR/orion.db", want: "/var/lib/orion/orion.db"},
		{name: "tilde and env var", input: "~/$ORION_TEST_DIR", want: filepath.Join(home, "/var/lib/orion")},
		{name: "unknown var expands empty", input: "$ORION_NO_SUCH_VAR/db", want: "/db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}
