//go:build windows

package actions

import (
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	dxva2 = windows.NewLazySystemDLL("dxva2.dll")

	procGetPhysicalMonitorsFromHMONITOR     = dxva2.NewProc("GetPhysicalMonitorsFromHMONITOR")
	procGetNumberOfPhysicalMonitorsFromHMON = dxva2.NewProc("GetNumberOfPhysicalMonitorsFromHMONITOR")
	procSetMonitorBrightness                = dxva2.NewProc("SetMonitorBrightness")
	procDestroyPhysicalMonitors             = dxva2.NewProc("DestroyPhysicalMonitors")

	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
)

// physicalMonitor mirrors the PHYSICAL_MONITOR struct (dxva2 - a handle
// plus a 128-wide description string).
type physicalMonitor struct {
	handle      syscall.Handle
	description [128]uint16
}

// SetBrightnessNative enumerates every monitor's physical handle and
// attempts DDC/CI SetMonitorBrightness on each; it succeeds if at least one
// monitor accepts the call, since a dead or sleeping monitor shouldn't
// fail the whole request.
func (e *Executors) SetBrightnessNative(percent int) bool {
	monitors := enumPhysicalMonitors()
	if len(monitors) == 0 {
		e.Log.Warn("set_brightness_native: no monitors enumerated")
		return false
	}

	succeeded := false
	for _, h := range monitors {
		ret, _, _ := procSetMonitorBrightness.Call(uintptr(h), uintptr(percent))
		if ret != 0 {
			succeeded = true
		}
	}
	destroyPhysicalMonitors(monitors)

	if !succeeded {
		e.Log.Warn("set_brightness_native: no monitor accepted brightness")
	}
	return succeeded
}

func enumPhysicalMonitors() []syscall.Handle {
	var hmonitors []windows.HMONITOR

	cb := syscall.NewCallback(func(hMonitor, _ uintptr, _ *windows.RECT, _ uintptr) uintptr {
		hmonitors = append(hmonitors, windows.HMONITOR(hMonitor))
		return 1 // continue enumeration
	})
	procEnumDisplayMonitors.Call(0, 0, cb, 0)

	var handles []syscall.Handle
	for _, hm := range hmonitors {
		var count uint32
		procGetNumberOfPhysicalMonitorsFromHMON.Call(uintptr(hm), uintptr(unsafe.Pointer(&count)))
		if count == 0 {
			continue
		}
		phys := make([]physicalMonitor, count)
		procGetPhysicalMonitorsFromHMONITOR.Call(uintptr(hm), uintptr(count), uintptr(unsafe.Pointer(&phys[0])))
		for _, p := range phys {
			handles = append(handles, p.handle)
		}
	}
	return handles
}

func destroyPhysicalMonitors(handles []syscall.Handle) {
	if len(handles) == 0 {
		return
	}
	procDestroyPhysicalMonitors.Call(uintptr(len(handles)), uintptr(unsafe.Pointer(&handles[0])))
}

// BrightnessExternalTarget selects the argument shape for the external
// brightness tool (e.g. Twinkle Tray).
type BrightnessExternalTarget int

const (
	BrightnessAll BrightnessExternalTarget = iota
	BrightnessMonitorID
	BrightnessMonitorNum
)

// BrightnessExternalConfig configures a SetBrightnessExternal call.
type BrightnessExternalConfig struct {
	ExePath     string
	Target      BrightnessExternalTarget
	TargetValue string
	Overlay     bool
	Panel       bool
}

// SetBrightnessExternal spawns the configured external brightness tool,
// capturing its output for diagnostics; it succeeds only on a zero exit
// code.
func (e *Executors) SetBrightnessExternal(ctx context.Context, percent int, cfg BrightnessExternalConfig) bool {
	args := []string{}
	switch cfg.Target {
	case BrightnessAll:
		args = append(args, "--All")
	case BrightnessMonitorID:
		args = append(args, fmt.Sprintf("--MonitorID=%s", cfg.TargetValue))
	case BrightnessMonitorNum:
		args = append(args, fmt.Sprintf("--MonitorNum=%s", cfg.TargetValue))
	}
	args = append(args, fmt.Sprintf("--Set=%d", percent))
	if cfg.Overlay {
		args = append(args, "--Overlay")
	}
	if cfg.Panel {
		args = append(args, "--Panel")
	}

	cmd := exec.Command(cfg.ExePath, args...)
	hideWindow(cmd)
	out, err := runCapture(ctx, cmd)
	if err != nil {
		e.Log.WithError(err).Warn("set_brightness_external: spawn failed")
		return false
	}
	if out.TimedOut || out.ExitCode != 0 {
		e.Log.WithFields(map[string]interface{}{
			"exit": out.ExitCode, "timed_out": out.TimedOut, "stderr": string(out.Stderr),
		}).Warn("set_brightness_external: non-zero exit")
		return false
	}
	return true
}
