package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSessionRemovesDirOnSuccess(t *testing.T) {
	parent := t.TempDir()
	var dir string

	err := WithSession(SessionOptions{Method: MethodDefault, TempDir: parent}, func(st Storage) error {
		dir = st.Dir()
		require.DirExists(t, dir)
		require.NoError(t, st.Accept(&fakeFrame{data: []byte("x")}))
		return st.Finalize(context.Background())
	})

	require.NoError(t, err)
	assert.NoDirExists(t, dir)
}

func TestWithSessionRemovesDirOnError(t *testing.T) {
	parent := t.TempDir()
	errCapture := errors.New("camera unplugged")
	var dir string

	err := WithSession(SessionOptions{Method: MethodMemory, TempDir: parent}, func(st Storage) error {
		dir = st.Dir()
		_ = st.Accept(&fakeFrame{data: []byte("x")})
		return errCapture
	})

	assert.ErrorIs(t, err, errCapture)
	assert.NoDirExists(t, dir)
}

func TestWithSessionRemovesDirOnPanic(t *testing.T) {
	parent := t.TempDir()
	var dir string

	assert.Panics(t, func() {
		_ = WithSession(SessionOptions{TempDir: parent}, func(st Storage) error {
			dir = st.Dir()
			panic("capture loop exploded")
		})
	})
	assert.NoDirExists(t, dir)
}

func TestWithSessionReleasesUnflushedFrames(t *testing.T) {
	f := &fakeFrame{}
	err := WithSession(SessionOptions{Method: MethodMemory, TempDir: t.TempDir()}, func(st Storage) error {
		return st.Accept(f)
	})

	require.NoError(t, err)
	assert.True(t, f.closed)
}

func TestWithSessionSelectsVariant(t *testing.T) {
	for method, check := range map[Method]func(Storage) bool{
		MethodDefault: func(st Storage) bool { _, ok := st.(*Disk); return ok },
		MethodMemory:  func(st Storage) bool { _, ok := st.(*Buffered); return ok },
	} {
		err := WithSession(SessionOptions{Method: method, TempDir: t.TempDir()}, func(st Storage) error {
			assert.True(t, check(st), "method %s", method)
			return nil
		})
		require.NoError(t, err)
	}
}

func TestWithSessionUnknownMethod(t *testing.T) {
	parent := t.TempDir()
	err := WithSession(SessionOptions{Method: "tape", TempDir: parent}, func(Storage) error {
		t.Fatal("fn must not run")
		return nil
	})

	assert.ErrorIs(t, err, ErrUnknownMethod)
	entries, readErr := os.ReadDir(parent)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
