package audio

import (
	"fmt"
	"runtime"
	"strings"
)

// Input names the ffmpeg capture backend and the device to read from,
// e.g. {avfoundation, :default} on macOS or {alsa, default} on Linux.
type Input struct {
	Backend string
	Device  string
}

// ParseInput turns a "backend:device" spec from config into an Input.
// An empty spec falls back to the platform's default microphone.
func ParseInput(spec string) (Input, error) {
	if spec == "" {
		return defaultInput(), nil
	}
	backend, device, ok := strings.Cut(spec, ":")
	if !ok || backend == "" || device == "" {
		return Input{}, &CaptureError{Reason: fmt.Sprintf("invalid capture input %q (expected backend:device, e.g. alsa:default)", spec)}
	}
	return Input{Backend: backend, Device: device}, nil
}

func defaultInput() Input {
	switch runtime.GOOS {
	case "darwin":
		return Input{Backend: "avfoundation", Device: ":default"}
	case "windows":
		return Input{Backend: "dshow", Device: "audio=default"}
	default:
		return Input{Backend: "alsa", Device: "default"}
	}
}
