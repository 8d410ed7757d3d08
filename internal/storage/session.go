package storage

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	uuid "github.com/gofrs/uuid/v5"

	"github.com/kmmndr/exactfps/internal/progress"
)

type SessionOptions struct {
	Method Method
	// TempDir is the parent of the session directory; empty means os.TempDir.
	TempDir  string
	Logger   *log.Logger
	Progress progress.Sink
}

func New(method Method, dir string, logger *log.Logger, sink progress.Sink) (Storage, error) {
	switch method {
	case MethodDefault, "":
		return NewDisk(dir, logger), nil
	case MethodMemory:
		return NewBuffered(dir, logger, sink), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}

// WithSession runs fn with a storage bound to a fresh temporary directory.
// The directory is removed when fn returns, errors or panics.
func WithSession(opts SessionOptions, fn func(Storage) error) (err error) {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("storage: session id: %w", err)
	}

	dir, err := os.MkdirTemp(opts.TempDir, "exactfps-"+id.String()+"-")
	if err != nil {
		return fmt.Errorf("storage: create session dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil && err == nil {
			err = fmt.Errorf("storage: remove session dir: %w", rmErr)
		}
	}()

	st, err := New(opts.Method, dir, opts.Logger, opts.Progress)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.Logger != nil {
		opts.Logger.Debug("storage session opened", "dir", dir, "method", opts.Method)
	}
	return fn(st)
}
