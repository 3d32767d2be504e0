package grove

import (
	"runtime"
	"testing"
)

func TestProbeDevice(t *testing.T) {
	d := ProbeDevice()
	if d.OS != runtime.GOOS || d.Arch != runtime.GOARCH {
		t.Errorf("device = %s/%s", d.OS, d.Arch)
	}
	if d.CPUs < 1 {
		t.Errorf("CPUs = %d", d.CPUs)
	}
	if d.Desktop() == d.Mobile {
		t.Error("Desktop should be the inverse of Mobile")
	}
}
