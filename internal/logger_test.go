package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"", "prod", "dev", "development", "test"} {
		t.Run("env "+env, func(t *testing.T) {
			l, err := NewLogger(env)
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}
