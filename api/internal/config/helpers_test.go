package config

import (
	"os"
	"testing"
)

// unset clears keys for the duration of the test and restores them after.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		// t.Setenv registers the restore; Unsetenv then clears the value.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}
