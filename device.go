package grove

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Device describes the machine the game runs on. It is probed once per Game
// at construction.
type Device struct {
	OS        string
	Arch      string
	CPUs      int
	GoVersion string
	Mobile    bool
	Features  []string // SIMD features reported by the CPU
}

// ProbeDevice inspects the current process environment.
func ProbeDevice() Device {
	d := Device{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
		Mobile:    runtime.GOOS == "android" || runtime.GOOS == "ios",
	}
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"sse4.1", cpu.X86.HasSSE41},
		{"avx", cpu.X86.HasAVX},
		{"avx2", cpu.X86.HasAVX2},
		{"asimd", cpu.ARM64.HasASIMD},
		{"aes", cpu.X86.HasAES || cpu.ARM64.HasAES},
	} {
		if f.ok {
			d.Features = append(d.Features, f.name)
		}
	}
	return d
}

// Desktop reports whether the device is not a mobile platform.
func (d Device) Desktop() bool { return !d.Mobile }
