package storage

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Disk writes every frame as soon as it is accepted. Memory stays bounded to
// one frame, but the write happens inside the timed capture loop.
type Disk struct {
	base
}

func NewDisk(dir string, logger *log.Logger) *Disk {
	return &Disk{base: base{dir: dir, logger: logger}}
}

func (d *Disk) Accept(f Frame) error {
	if err := d.checkAccepting(); err != nil {
		f.Close()
		return err
	}

	path := d.nextPath()
	err := f.WriteFile(path)
	f.Close()
	if err != nil {
		if d.logger != nil {
			d.logger.Debug("frame write failed", "path", path, "err", err)
		}
		return fmt.Errorf("storage: write frame %d: %w", d.stored, err)
	}
	return nil
}

func (d *Disk) Finalize(context.Context) error {
	d.finalized = true
	return nil
}

func (d *Disk) Close() error {
	return nil
}
