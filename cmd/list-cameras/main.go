package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/kmmndr/exactfps/internal/video"
)

func main() {
	var open bool

	flag.BoolVar(&open, "open", false, "Open each device and try to read a frame")
	flag.Parse()

	devices, err := video.DiscoverDevices()
	if err != nil {
		log.Fatal("Error: unable to list cameras", "err", err)
	}
	if len(devices) == 0 {
		fmt.Println("No camera found")
		os.Exit(1)
	}

	for _, device := range devices {
		if !open {
			fmt.Printf("%s\t%s\n", device.ID, device.Path)
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", device.ID, device.Path, describeDevice(device))
	}
}

func describeDevice(device video.Device) string {
	stream, err := video.NewDeviceStream(device.Path, video.Options{})
	if err != nil {
		return "unavailable"
	}
	defer stream.Close()

	f, err := stream.ReadFrame()
	if err != nil {
		return fmt.Sprintf("no frame (%v)", err)
	}
	defer f.Close()

	return fmt.Sprintf("%dx%d @ %.2f fps", f.Width(), f.Height(), stream.Fps())
}
