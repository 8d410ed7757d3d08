// Package encoder turns a directory of sequentially named JPEG frames into a
// video file.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	ErrEncoderFailed = errors.New("encoder: failed")
	ErrUnknownKind   = errors.New("encoder: unknown kind")
)

// Job describes one encode of stored frames.
type Job struct {
	FPS float64
	// Input is the storage's encoder input-option pair.
	Input []string
	// Pattern is the printf path template of the frames, indexed from 1.
	Pattern string
	Count   int
	Output  string
}

type Encoder interface {
	Name() string
	Encode(ctx context.Context, job Job) error
}

type Kind string

const (
	KindFFmpeg Kind = "ffmpeg"
	KindAVI    Kind = "avi"
)

var Kinds = []Kind{KindFFmpeg, KindAVI}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// New builds the encoder of the given kind. binary only applies to ffmpeg.
func New(kind Kind, binary string, logger *log.Logger) (Encoder, error) {
	switch kind {
	case KindFFmpeg, "":
		return NewFFmpeg(binary, logger), nil
	case KindAVI:
		return NewAVI(logger), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
