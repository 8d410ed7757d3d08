package video

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/kmmndr/exactfps/internal/frame"
	"github.com/kmmndr/exactfps/internal/storage"

	"gocv.io/x/gocv"
)

var ErrReadFailed = errors.New("video: unable to read frame")

type Stream struct {
	Video *gocv.VideoCapture
	reads int
	stale *frame.StaleDetector
}

// Options tune a device stream. Zero values keep driver defaults.
type Options struct {
	Width       int
	Height      int
	// DetectStale counts frames that are pixel-identical to the previous one.
	DetectStale bool
}

// NewDeviceStream opens a camera index ("0"), a device path or a URL.
func NewDeviceStream(device string, opts Options) (*Stream, error) {
	var source interface{} = device
	if id, err := strconv.Atoi(device); err == nil {
		source = id
	}

	video, err := gocv.OpenVideoCapture(source)
	if err != nil {
		return nil, fmt.Errorf("unable to open video device %q: %w", device, err)
	}
	if !video.IsOpened() {
		video.Close()
		return nil, fmt.Errorf("unable to open video device %q", device)
	}

	if opts.Width > 0 {
		video.Set(gocv.VideoCaptureFrameWidth, float64(opts.Width))
	}
	if opts.Height > 0 {
		video.Set(gocv.VideoCaptureFrameHeight, float64(opts.Height))
	}

	s := &Stream{Video: video}
	if opts.DetectStale {
		s.stale = frame.NewStaleDetector()
	}
	return s, nil
}

func (s *Stream) Close() error {
	if s.stale != nil {
		s.stale.Close()
	}
	return s.Video.Close()
}

func (s *Stream) Fps() float64 {
	return s.Video.Get(gocv.VideoCaptureFPS)
}

func (s *Stream) Size() (int, int) {
	return int(s.Video.Get(gocv.VideoCaptureFrameWidth)), int(s.Video.Get(gocv.VideoCaptureFrameHeight))
}

// ReadFrame grabs the next frame into a fresh Mat owned by the returned Frame.
func (s *Stream) ReadFrame() (*frame.Frame, error) {
	mat := gocv.NewMat()
	if ok := s.Video.Read(&mat); !ok {
		mat.Close()
		return nil, ErrReadFailed
	}

	s.reads++
	f, err := frame.New(s.reads, mat)
	if err != nil {
		return nil, err
	}

	if s.stale != nil {
		s.stale.Check(f)
	}
	return f, nil
}

// Read satisfies the capture camera contract.
func (s *Stream) Read() (storage.Frame, error) {
	f, err := s.ReadFrame()
	if err != nil {
		return nil, err
	}
	return f, nil
}

// StaleFrames is the number of frames identical to their predecessor.
func (s *Stream) StaleFrames() int {
	if s.stale == nil {
		return 0
	}
	return s.stale.StaleCount()
}
