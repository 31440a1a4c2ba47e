package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	InitHashSaltForTesting("test-salt-for-unit-tests-minimum-32-chars")
	os.Exit(m.Run())
}

func TestHashUserID(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		require.Equal(t, HashUserID(12345), HashUserID(12345))
	})

	t.Run("differs across user IDs", func(t *testing.T) {
		require.NotEqual(t, HashUserID(12345), HashUserID(67890))
	})

	t.Run("is 8 characters", func(t *testing.T) {
		require.Len(t, HashUserID(12345), 8)
	})
}

func TestHashEmail(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		require.Equal(t, HashEmail("User@Example.com "), HashEmail("user@example.com"))
	})

	t.Run("differs across addresses", func(t *testing.T) {
		require.NotEqual(t, HashEmail("a@example.com"), HashEmail("b@example.com"))
	})

	t.Run("never contains the address", func(t *testing.T) {
		require.NotContains(t, HashEmail("someone@example.com"), "someone")
	})
}

func TestSanitizeText(t *testing.T) {
	require.Equal(t, "<empty>", SanitizeText(""))
	require.Equal(t, "<5 chars>", SanitizeText("short"))
	require.Equal(t, "a l...<23 chars>", SanitizeText("a longer piece of input"))
}
