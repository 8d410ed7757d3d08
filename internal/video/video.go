package video

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Device is a V4L2 character device found under /dev.
type Device struct {
	ID   string
	Path string
}

// DiscoverDevices lists /dev/video* character devices sorted by name.
func DiscoverDevices() ([]Device, error) {
	return discoverDevices("/dev")
}

func discoverDevices(devDir string) ([]Device, error) {
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, fmt.Errorf("unable to scan %s: %w", devDir, err)
	}

	var devices []Device
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "video") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Mode()&os.ModeCharDevice == 0 {
			continue
		}
		devices = append(devices, Device{
			ID:   strings.TrimPrefix(entry.Name(), "video"),
			Path: filepath.Join(devDir, entry.Name()),
		})
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Path < devices[j].Path
	})
	return devices, nil
}
