package console

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestScriptWatcher_ReportsWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "office.pix")
	require.NoError(t, os.WriteFile(path, []byte("spawn boss\n"), 0644))

	sw, err := WatchScript(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.pix"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("spawn boss\ntick 1\n"), 0644))

	select {
	case <-sw.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, sw.Close())
	assert.NoError(t, sw.Close())
}

func TestWatch_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "office.pix")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func() error { return nil })
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_ReturnsCallbackError(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "office.pix")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	boom := errors.New("boom")
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(ready)
		done <- Watch(context.Background(), path, func() error { return boom })
	}()
	<-ready

	// The watcher may not be registered yet; keep writing until it reacts.
	deadline := time.After(5 * time.Second)
	for {
		require.NoError(t, os.WriteFile(path, []byte("tick 1\n"), 0644))
		select {
		case err := <-done:
			assert.ErrorIs(t, err, boom)
			return
		case <-deadline:
			t.Fatal("callback error not returned")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestWatchScript_MissingDirectory(t *testing.T) {
	_, err := WatchScript(filepath.Join(t.TempDir(), "nope", "office.pix"))
	assert.Error(t, err)
}
