package frame

import (
	"gocv.io/x/gocv"

	"github.com/kmmndr/exactfps/internal/frame/repeat"
)

// StaleDetector spots a camera that keeps returning the same image by
// comparing the grayscale version of each frame with the previous one.
type StaleDetector struct {
	previous gocv.Mat
	counter  repeat.Counter
}

func NewStaleDetector() *StaleDetector {
	return &StaleDetector{previous: gocv.NewMat()}
}

// Check reports whether f is identical to the frame checked before it.
func (sd *StaleDetector) Check(f *Frame) bool {
	gray := gocv.NewMat()
	gocv.CvtColor(f.img, &gray, gocv.ColorBGRToGray)
	if gray.Empty() {
		gray.Close()
		return false
	}

	stale := sd.counter.Observe(gray.Cols(), gray.Rows(), func() int {
		return changedPixels(sd.previous, gray)
	})

	sd.previous.Close()
	sd.previous = gray
	return stale
}

func (sd *StaleDetector) StaleCount() int {
	return sd.counter.Count()
}

func (sd *StaleDetector) Close() {
	sd.previous.Close()
}

// changedPixels counts pixels whose intensity differs at all between two
// single-channel images of the same size.
func changedPixels(a, b gocv.Mat) int {
	diff := gocv.NewMat()
	defer diff.Close()

	gocv.AbsDiff(a, b, &diff)
	return gocv.CountNonZero(diff)
}
