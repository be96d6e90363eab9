package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFile(t *testing.T) {
	t.Run("Should certify on start and again after the draft changes", func(t *testing.T) {
		dir := t.TempDir()
		in := filepath.Join(dir, "draft.json")
		out := filepath.Join(dir, "certified.json")
		require.NoError(t, os.WriteFile(in, []byte(draftJSON), 0o600))

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- watchFile(ctx, &cobra.Command{}, in, out, 10*time.Millisecond) }()

		contains := func(s string) func() bool {
			return func() bool {
				data, err := os.ReadFile(out)
				return err == nil && strings.Contains(string(data), s)
			}
		}
		assert.Eventually(t, contains("Lunch at Zuma"), 2*time.Second, 20*time.Millisecond)

		updated := strings.Replace(draftJSON, "Akihabara", "Ginza", 1)
		require.NoError(t, os.WriteFile(in, []byte(updated), 0o600))
		assert.Eventually(t, contains("Ginza"), 2*time.Second, 20*time.Millisecond)

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("watch did not stop after cancel")
		}
	})
}
