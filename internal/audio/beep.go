package audio

import (
	"os/exec"
	"runtime"

	"github.com/gen2brain/beeep"
)

// Beep kinds
const (
	BeepEnabled  = "enabled"
	BeepDisabled = "disabled"
	BeepRecord   = "record"
)

// PlayBeep plays a short system beep for state changes
func PlayBeep(beepType string) {
	freq, duration := beeep.DefaultFreq, beeep.DefaultDuration/2
	switch beepType {
	case BeepDisabled:
		// Lower tone for off
		freq, duration = beeep.DefaultFreq/2, beeep.DefaultDuration/3
	case BeepRecord:
		freq, duration = beeep.DefaultFreq*2, beeep.DefaultDuration/4
	}

	if err := beeep.Beep(freq, duration); err != nil && runtime.GOOS == "darwin" {
		// Fallback to system beep command
		exec.Command("osascript", "-e", "beep 1").Run()
	}
}
