// Package storage accumulates captured frames as sequentially named JPEG files
// that an encoder can read through a single path pattern.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// NameTemplate names stored frames. Indices start at 1.
const NameTemplate = "screenshot_%010d.jpg"

var (
	ErrFinalized     = errors.New("storage: already finalized")
	ErrUnknownMethod = errors.New("storage: unknown store method")
)

// Frame is a captured image owned by the storage once accepted.
type Frame interface {
	WriteFile(path string) error
	Close() error
}

// Sizer is implemented by frames that know their in-memory footprint.
type Sizer interface {
	Size() int
}

type Storage interface {
	// Accept takes ownership of f.
	Accept(f Frame) error
	// Finalize makes every accepted frame readable on disk.
	Finalize(ctx context.Context) error
	// EncoderInput returns the encoder arguments selecting the stored frames.
	EncoderInput() []string
	Dir() string
	Pattern() string
	Count() int
	// Close releases frames that were never written.
	Close() error
}

type Method string

const (
	MethodDefault Method = "default"
	MethodMemory  Method = "memory"
)

var Methods = []Method{MethodDefault, MethodMemory}

func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// base holds the counter and naming shared by both variants.
type base struct {
	dir       string
	stored    int
	finalized bool
	logger    *log.Logger
}

func (b *base) nextPath() string {
	b.stored++
	return filepath.Join(b.dir, fmt.Sprintf(NameTemplate, b.stored))
}

func (b *base) Dir() string { return b.dir }

func (b *base) Pattern() string {
	return filepath.Join(b.dir, NameTemplate)
}

func (b *base) Count() int { return b.stored }

func (b *base) EncoderInput() []string {
	return []string{"-i", b.Pattern()}
}

func (b *base) checkAccepting() error {
	if b.finalized {
		return ErrFinalized
	}
	return nil
}
