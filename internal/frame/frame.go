package frame

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

var ErrEmptyFrame = errors.New("frame is empty")

// Frame is one image read from the camera. It owns its Mat until Close.
type Frame struct {
	seq int
	img gocv.Mat
}

// New wraps img, the seq-th read of the stream. An empty Mat is closed and
// rejected.
func New(seq int, img gocv.Mat) (*Frame, error) {
	if img.Empty() {
		img.Close()
		return nil, ErrEmptyFrame
	}
	return &Frame{seq: seq, img: img}, nil
}

func (f *Frame) Width() int  { return f.img.Cols() }
func (f *Frame) Height() int { return f.img.Rows() }

// Size is the number of bytes held in memory by the image.
func (f *Frame) Size() int {
	return f.img.Total() * f.img.ElemSize()
}

// WriteFile encodes the image to path; the extension selects the format.
func (f *Frame) WriteFile(path string) error {
	if !gocv.IMWrite(path, f.img) {
		return fmt.Errorf("frame: read #%d: unable to encode %s", f.seq, path)
	}
	return nil
}

func (f *Frame) Close() error {
	return f.img.Close()
}
